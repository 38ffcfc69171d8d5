package prompt

import (
	"fmt"
	"os"
	"strings"

	"fb-analyzer/internal/domain"
)

// Плейсхолдеры шаблона извлечения.
const (
	PlaceholderCompanyName  = "{COMPANY_NAME}"
	PlaceholderTextSummary  = "{TEXT_SUMMARY}"
	PlaceholderImageSummary = "{IMAGE_SUMMARY}"
)

const textTemplate = `You are an expert in analyzing feedback, and a product manager for this company %s.
Analyze the following feedback text and provide a summary of the feedback.

feedback text: %s

only return the summary of the feedback.
`

const imageTemplate = `You are an expert in analyzing feedback, and a product manager for this company %s.
Analyze the image and provide a summary of the feedback.

only return the summary of the feedback.
`

// Builder рендерит промпты. Шаблон извлечения читается с диска
// при каждом вызове, поэтому правки файла подхватываются без рестарта.
type Builder struct {
	templatePath string
}

var _ domain.PromptBuilder = (*Builder)(nil)

// NewBuilder создаёт сборщик промптов с путём к шаблону извлечения.
func NewBuilder(templatePath string) *Builder {
	return &Builder{templatePath: templatePath}
}

// BuildTextPrompt просит модель кратко пересказать текст отзыва.
func (b *Builder) BuildTextPrompt(companyName, feedbackText string) string {
	return fmt.Sprintf(textTemplate, companyName, feedbackText)
}

// BuildImagePrompt просит модель проанализировать только изображение.
func (b *Builder) BuildImagePrompt(companyName string) string {
	return fmt.Sprintf(imageTemplate, companyName)
}

// BuildExtractionPrompt подставляет название компании и оба пересказа в шаблон.
func (b *Builder) BuildExtractionPrompt(companyName, textSummary, imageSummary string) (string, error) {
	raw, err := os.ReadFile(b.templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrTemplateLoad, b.templatePath, err)
	}
	return Render(string(raw), map[string]string{
		PlaceholderCompanyName:  companyName,
		PlaceholderTextSummary:  textSummary,
		PlaceholderImageSummary: imageSummary,
	})
}

// Render заменяет все плейсхолдеры за один проход. Значения не
// интерпретируются повторно, так что фигурные скобки в отзыве безопасны.
func Render(tmpl string, values map[string]string) (string, error) {
	pairs := make([]string, 0, len(values)*2)
	for placeholder, value := range values {
		if !strings.Contains(tmpl, placeholder) {
			return "", fmt.Errorf("%w: %s", domain.ErrSubstitution, placeholder)
		}
		pairs = append(pairs, placeholder, value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}
