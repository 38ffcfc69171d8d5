package domain

import "context"

// ChatModel отправляет промпты во внешнюю чат-модель.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// PromptBuilder собирает промпты для модели.
type PromptBuilder interface {
	BuildTextPrompt(companyName, feedbackText string) string
	BuildImagePrompt(companyName string) string
	BuildExtractionPrompt(companyName, textSummary, imageSummary string) (string, error)
}

// FeedbackRepo хранит проанализированные отзывы.
type FeedbackRepo interface {
	Save(ctx context.Context, fb Feedback) (Feedback, error)
	FindAll(ctx context.Context) ([]Feedback, error)
}

// FeedbackService анализирует отзывы и отдаёт сохранённые результаты.
type FeedbackService interface {
	AnalyzeFeedback(ctx context.Context, image *Image, text string) (Feedback, error)
	ListAllFeedback(ctx context.Context) ([]Feedback, error)
}
