package domain

import (
	"errors"
	"time"
)

// Сентинел-значения для отсутствующих входных данных.
const (
	NoFeedbackText  = "NO_FEEDBACK_TEXT_PROVIDED"
	NoFeedbackImage = "NO_FEEDBACK_IMAGE_PROVIDED"
)

// ImageMIMEType объявляется модели для любого загруженного изображения.
const ImageMIMEType = "image/jpeg"

var (
	ErrTemplateLoad         = errors.New("не удалось загрузить шаблон промпта")
	ErrSubstitution         = errors.New("в шаблоне промпта нет обязательного плейсхолдера")
	ErrModelCall            = errors.New("ошибка вызова модели")
	ErrMalformedModelOutput = errors.New("некорректный ответ модели")
	ErrPersistence          = errors.New("ошибка хранилища")
)

// Feedback представляет проанализированный отзыв клиента.
// ID и CreatedAt назначает хранилище при сохранении.
type Feedback struct {
	ID            int64     `json:"id,omitempty"`
	Summary       string    `json:"summary"`
	CustomerText  string    `json:"customerText"`
	SentimentType string    `json:"sentimentType"`
	Score         string    `json:"score"`
	BasedOn       string    `json:"basedOn"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Image содержит загруженный файл изображения.
type Image struct {
	Filename string
	Data     []byte
}

// Empty сообщает, что изображения фактически нет.
func (i *Image) Empty() bool {
	return i == nil || len(i.Data) == 0
}
