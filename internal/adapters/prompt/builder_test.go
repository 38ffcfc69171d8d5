package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fb-analyzer/internal/domain"
)

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer-prompt.st")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func TestBuildTextPrompt(t *testing.T) {
	b := NewBuilder("")
	got := b.BuildTextPrompt("Acme", "Great product, fast shipping")
	if !strings.Contains(got, "company Acme.") {
		t.Fatalf("expected company name in prompt, got %q", got)
	}
	if !strings.Contains(got, "feedback text: Great product, fast shipping") {
		t.Fatalf("expected feedback text in prompt, got %q", got)
	}
}

func TestBuildTextPromptAcceptsEmpty(t *testing.T) {
	got := NewBuilder("").BuildTextPrompt("", "")
	if !strings.Contains(got, "feedback text: \n") {
		t.Fatalf("expected empty feedback text line, got %q", got)
	}
}

func TestBuildImagePrompt(t *testing.T) {
	got := NewBuilder("").BuildImagePrompt("Acme")
	if !strings.Contains(got, "Acme") || !strings.Contains(got, "Analyze the image") {
		t.Fatalf("unexpected image prompt: %q", got)
	}
	if strings.Contains(got, "feedback text:") {
		t.Fatalf("image prompt must not reference feedback text")
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	path := writeTemplate(t, "company={COMPANY_NAME}\ntext={TEXT_SUMMARY}\nimage={IMAGE_SUMMARY}\ncompany again={COMPANY_NAME}")
	got, err := NewBuilder(path).BuildExtractionPrompt("Acme", "fast shipping", domain.NoFeedbackImage)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "company=Acme\ntext=fast shipping\nimage=NO_FEEDBACK_IMAGE_PROVIDED\ncompany again=Acme"
	if got != want {
		t.Fatalf("unexpected prompt:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildExtractionPromptDoesNotReexpandValues(t *testing.T) {
	path := writeTemplate(t, "{COMPANY_NAME}|{TEXT_SUMMARY}|{IMAGE_SUMMARY}")
	got, err := NewBuilder(path).BuildExtractionPrompt("Acme", "says {IMAGE_SUMMARY}", "img")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "Acme|says {IMAGE_SUMMARY}|img" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestBuildExtractionPromptMissingFile(t *testing.T) {
	b := NewBuilder(filepath.Join(t.TempDir(), "missing.st"))
	_, err := b.BuildExtractionPrompt("Acme", "a", "b")
	if !errors.Is(err, domain.ErrTemplateLoad) {
		t.Fatalf("expected ErrTemplateLoad, got %v", err)
	}
}

func TestBuildExtractionPromptMissingPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no company", body: "{TEXT_SUMMARY} {IMAGE_SUMMARY}"},
		{name: "no text", body: "{COMPANY_NAME} {IMAGE_SUMMARY}"},
		{name: "no image", body: "{COMPANY_NAME} {TEXT_SUMMARY}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemplate(t, tt.body)
			_, err := NewBuilder(path).BuildExtractionPrompt("Acme", "a", "b")
			if !errors.Is(err, domain.ErrSubstitution) {
				t.Fatalf("expected ErrSubstitution, got %v", err)
			}
		})
	}
}

func TestDefaultTemplateHasAllPlaceholders(t *testing.T) {
	path := filepath.Join("..", "..", "..", "prompts", "analyzer-prompt.st")
	got, err := NewBuilder(path).BuildExtractionPrompt("Acme", "text", "image")
	if err != nil {
		t.Fatalf("default template: %v", err)
	}
	if strings.Contains(got, "{COMPANY_NAME}") || strings.Contains(got, "{TEXT_SUMMARY}") || strings.Contains(got, "{IMAGE_SUMMARY}") {
		t.Fatalf("placeholders left in rendered prompt")
	}
	if !strings.Contains(got, "JSON") {
		t.Fatalf("default template must ask for JSON")
	}
}
