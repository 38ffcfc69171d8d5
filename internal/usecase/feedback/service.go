package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fb-analyzer/internal/domain"
	"fb-analyzer/internal/infra/metrics"
)

// Config содержит параметры анализа.
type Config struct {
	CompanyName string
}

// Service анализирует отзывы через чат-модель и сохраняет результат.
type Service struct {
	chat    domain.ChatModel
	prompts domain.PromptBuilder
	repo    domain.FeedbackRepo
	cfg     Config
	log     zerolog.Logger
}

var _ domain.FeedbackService = (*Service)(nil)

// NewService создаёт сервис анализа отзывов.
func NewService(chat domain.ChatModel, prompts domain.PromptBuilder, repo domain.FeedbackRepo, cfg Config, logger zerolog.Logger) *Service {
	return &Service{chat: chat, prompts: prompts, repo: repo, cfg: cfg, log: logger}
}

// AnalyzeFeedback пересказывает текст и изображение, извлекает из ответа
// модели структурированный отзыв и сохраняет его. Любая ошибка прерывает
// анализ целиком: частичный результат не сохраняется.
func (s *Service) AnalyzeFeedback(ctx context.Context, image *domain.Image, text string) (result domain.Feedback, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFeedbackAnalysis(start, err) }()
	logger := s.log.With().Str("analysis_id", uuid.NewString()).Logger()

	var textSummary, imageSummary string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.summarizeText(gctx, text)
		textSummary = summary
		return err
	})
	g.Go(func() error {
		summary, err := s.summarizeImage(gctx, image)
		imageSummary = summary
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("пересказ отзыва не удался")
		return domain.Feedback{}, err
	}
	logger.Debug().Str("text_summary", textSummary).Str("image_summary", imageSummary).Msg("пересказы получены")

	prompt, err := s.prompts.BuildExtractionPrompt(s.cfg.CompanyName, textSummary, imageSummary)
	if err != nil {
		logger.Error().Err(err).Msg("промпт извлечения")
		return domain.Feedback{}, fmt.Errorf("промпт извлечения: %w", err)
	}
	raw, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("вызов модели для извлечения")
		return domain.Feedback{}, fmt.Errorf("извлечение отзыва: %w", ensureKind(domain.ErrModelCall, err))
	}
	parsed, err := ParseFeedback(raw)
	if err != nil {
		logger.Warn().Err(err).Str("raw", raw).Msg("модель вернула некорректный JSON")
		return domain.Feedback{}, err
	}
	parsed.CustomerText = text

	saved, err := s.repo.Save(ctx, parsed)
	if err != nil {
		logger.Error().Err(err).Msg("сохранение отзыва")
		return domain.Feedback{}, fmt.Errorf("сохранение отзыва: %w", ensureKind(domain.ErrPersistence, err))
	}
	logger.Info().
		Int64("id", saved.ID).
		Str("sentiment_type", saved.SentimentType).
		Str("score", saved.Score).
		Msg("отзыв проанализирован")
	return saved, nil
}

// ListAllFeedback возвращает все сохранённые отзывы в порядке хранилища.
func (s *Service) ListAllFeedback(ctx context.Context) ([]domain.Feedback, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("список отзывов: %w", ensureKind(domain.ErrPersistence, err))
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	return items, nil
}

func (s *Service) summarizeText(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return domain.NoFeedbackText, nil
	}
	metrics.IncFeedbackInput("text")
	summary, err := s.chat.Complete(ctx, s.prompts.BuildTextPrompt(s.cfg.CompanyName, text))
	if err != nil {
		return "", fmt.Errorf("пересказ текста: %w", ensureKind(domain.ErrModelCall, err))
	}
	return summary, nil
}

func (s *Service) summarizeImage(ctx context.Context, image *domain.Image) (string, error) {
	if image.Empty() {
		return domain.NoFeedbackImage, nil
	}
	metrics.IncFeedbackInput("image")
	summary, err := s.chat.CompleteWithImage(ctx, s.prompts.BuildImagePrompt(s.cfg.CompanyName), image.Data, domain.ImageMIMEType)
	if err != nil {
		return "", fmt.Errorf("пересказ изображения: %w", ensureKind(domain.ErrModelCall, err))
	}
	return summary, nil
}

// ensureKind гарантирует, что err распознаётся через errors.Is как kind.
func ensureKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
