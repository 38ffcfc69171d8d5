package chat

import (
	"context"
	"fmt"
	"strings"

	"fb-analyzer/internal/domain"
)

// Stub имитирует чат-модель для локального запуска без ключа API.
// Промпт на извлечение распознаётся по требованию вернуть JSON.
type Stub struct{}

var _ domain.ChatModel = (*Stub)(nil)

// NewStub создаёт заглушку.
func NewStub() *Stub {
	return &Stub{}
}

// Complete возвращает первую непустую строку промпта либо готовый JSON.
func (s *Stub) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "JSON") {
		return `{"summary":"Отзыв получен","sentiment_type":"neutral","score":"5","based_on":"text"}`, nil
	}
	for _, line := range strings.Split(prompt, "\n") {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "feedback text:") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "feedback text:")), nil
		}
	}
	return "Без содержания", nil
}

// CompleteWithImage описывает изображение по его размеру.
func (s *Stub) CompleteWithImage(_ context.Context, _ string, image []byte, mimeType string) (string, error) {
	return fmt.Sprintf("Изображение %s, %d байт", mimeType, len(image)), nil
}
