package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"fb-analyzer/internal/domain"
)

// looseText принимает JSON-строку или число и хранит их как текст.
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = looseText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ожидали строку или число: %s", data)
	}
	*t = looseText(n.String())
	return nil
}

type extractionPayload struct {
	Summary            looseText `json:"summary"`
	SentimentType      looseText `json:"sentiment_type"`
	SentimentTypeCamel looseText `json:"sentimentType"`
	Score              looseText `json:"score"`
	BasedOn            looseText `json:"based_on"`
	BasedOnCamel       looseText `json:"basedOn"`
}

// ParseFeedback разбирает JSON-ответ модели в отзыв. Ключи принимаются
// в snake_case и camelCase, score может быть числом. Все четыре поля обязательны.
func ParseFeedback(raw string) (domain.Feedback, error) {
	content := stripCodeFence(raw)
	var p extractionPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return domain.Feedback{}, fmt.Errorf("%w: %w", domain.ErrMalformedModelOutput, err)
	}
	fb := domain.Feedback{
		Summary:       strings.TrimSpace(string(p.Summary)),
		SentimentType: firstNonEmpty(p.SentimentType, p.SentimentTypeCamel),
		Score:         strings.TrimSpace(string(p.Score)),
		BasedOn:       firstNonEmpty(p.BasedOn, p.BasedOnCamel),
	}
	var missing []string
	if fb.Summary == "" {
		missing = append(missing, "summary")
	}
	if fb.SentimentType == "" {
		missing = append(missing, "sentiment_type")
	}
	if fb.Score == "" {
		missing = append(missing, "score")
	}
	if fb.BasedOn == "" {
		missing = append(missing, "based_on")
	}
	if len(missing) > 0 {
		return domain.Feedback{}, fmt.Errorf("%w: нет полей %s", domain.ErrMalformedModelOutput, strings.Join(missing, ", "))
	}
	return fb, nil
}

func firstNonEmpty(values ...looseText) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(string(v)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// stripCodeFence убирает обёртку ```json ... ```, которую модели иногда добавляют.
func stripCodeFence(raw string) string {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	if idx := strings.Index(content, "\n"); idx >= 0 {
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
