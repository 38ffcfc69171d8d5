package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"fb-analyzer/internal/domain"
	openai "fb-analyzer/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI реализует domain.ChatModel через OpenAI Chat Completions.
type OpenAI struct {
	client chatClient
	model  string
}

var _ domain.ChatModel = (*OpenAI)(nil)

// NewOpenAI создаёт адаптер чат-модели.
func NewOpenAI(client chatClient, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: client, model: model}
}

// Complete отправляет текстовый промпт и возвращает ответ модели как есть.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	return o.send(ctx, openai.ChatMessage{Role: openai.RoleUser, Content: prompt})
}

// CompleteWithImage отправляет промпт вместе с изображением.
func (o *OpenAI) CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = domain.ImageMIMEType
	}
	msg := openai.ChatMessage{
		Role: openai.RoleUser,
		Parts: []openai.ContentPart{
			openai.TextPart(prompt),
			openai.ImagePart(DataURI(mimeType, image)),
		},
	}
	return o.send(ctx, msg)
}

func (o *OpenAI) send(ctx context.Context, msg openai.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: []openai.ChatMessage{msg},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrModelCall, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: пустой ответ", domain.ErrModelCall)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DataURI кодирует бинарные данные в data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
