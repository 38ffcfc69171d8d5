package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"fb-analyzer/internal/domain"
	openai "fb-analyzer/internal/infra/openai"
)

type fakeClient struct {
	resp     openai.ChatCompletionResponse
	err      error
	captured []openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.captured = append(f.captured, req)
	return f.resp, f.err
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatMessage{Role: "assistant", Content: content}}}}
}

func TestCompleteSendsSingleUserMessage(t *testing.T) {
	client := &fakeClient{resp: reply("  summary text \n")}
	model := NewOpenAI(client, "gpt-test")

	got, err := model.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "summary text" {
		t.Fatalf("unexpected content: %q", got)
	}
	if len(client.captured) != 1 {
		t.Fatalf("expected one request, got %d", len(client.captured))
	}
	req := client.captured[0]
	if req.Model != "gpt-test" {
		t.Fatalf("unexpected model %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != openai.RoleUser || req.Messages[0].Content != "prompt" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
	if len(req.Messages[0].Parts) != 0 {
		t.Fatalf("text-only request must not carry parts")
	}
}

func TestCompleteWithImageAttachesDataURI(t *testing.T) {
	client := &fakeClient{resp: reply("broken box on photo")}
	model := NewOpenAI(client, "")
	image := []byte{0xff, 0xd8, 0xff, 0xe0}

	got, err := model.CompleteWithImage(context.Background(), "describe", image, domain.ImageMIMEType)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "broken box on photo" {
		t.Fatalf("unexpected content: %q", got)
	}
	parts := client.captured[0].Messages[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected text and image parts, got %d", len(parts))
	}
	if parts[0].Type != openai.ContentPartText || parts[0].Text != "describe" {
		t.Fatalf("unexpected text part: %+v", parts[0])
	}
	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	if parts[1].Type != openai.ContentPartImage || parts[1].ImageURL == nil || parts[1].ImageURL.URL != want {
		t.Fatalf("unexpected image part: %+v", parts[1])
	}
}

func TestCompleteWrapsTransportError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	_, err := NewOpenAI(client, "m").Complete(context.Background(), "p")
	if !errors.Is(err, domain.ErrModelCall) {
		t.Fatalf("expected ErrModelCall, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := &fakeClient{}
	_, err := NewOpenAI(client, "m").CompleteWithImage(context.Background(), "p", []byte{1}, "")
	if !errors.Is(err, domain.ErrModelCall) {
		t.Fatalf("expected ErrModelCall, got %v", err)
	}
}

func TestStubExtractionReturnsValidJSON(t *testing.T) {
	s := NewStub()
	text, err := s.Complete(context.Background(), "feedback text: hello\n")
	if err != nil || text != "hello" {
		t.Fatalf("unexpected text summary %q, %v", text, err)
	}
	out, err := s.Complete(context.Background(), "Return only a JSON object")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"sentiment_type"`) {
		t.Fatalf("unexpected stub output: %q", out)
	}
}
