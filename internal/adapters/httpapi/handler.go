package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"fb-analyzer/internal/domain"
)

// Path задаёт адрес ресурса анализа отзывов.
const Path = "/api/fb-analyser"

const (
	fieldFeedbackContent = "feedbackContent"
	fieldFile            = "file"

	defaultMaxUploadBytes = 10 << 20
)

// Handler обслуживает /api/fb-analyser.
type Handler struct {
	service        domain.FeedbackService
	log            zerolog.Logger
	maxUploadBytes int64
}

// NewHandler создаёт HTTP-обработчик анализа отзывов.
func NewHandler(service domain.FeedbackService, logger zerolog.Logger, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{service: service, log: logger, maxUploadBytes: maxUploadBytes}
}

// Register монтирует маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Post(Path, h.Analyze)
	r.Get(Path, h.List)
}

// Analyze принимает multipart-форму с текстом отзыва и необязательным изображением.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	values, ok := r.MultipartForm.Value[fieldFeedbackContent]
	if !ok {
		writeError(w, http.StatusBadRequest, "feedbackContent is required")
		return
	}
	text := ""
	if len(values) > 0 {
		text = values[0]
	}

	image, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	logger := h.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
	result, err := h.service.AnalyzeFeedback(r.Context(), image, text)
	if err != nil {
		logger.Error().Err(err).Msg("api: анализ отзыва")
		writeError(w, http.StatusInternalServerError, errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// List отдаёт все проанализированные отзывы.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAllFeedback(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("api: список отзывов")
		writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	writeJSON(w, http.StatusOK, items)
}

func readImage(r *http.Request) (*domain.Image, error) {
	files := r.MultipartForm.File[fieldFile]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.Image{Filename: header.Filename, Data: data}, nil
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTemplateLoad), errors.Is(err, domain.ErrSubstitution):
		return "prompt template error"
	case errors.Is(err, domain.ErrModelCall):
		return "chat model call failed"
	case errors.Is(err, domain.ErrMalformedModelOutput):
		return "chat model returned malformed output"
	case errors.Is(err, domain.ErrPersistence):
		return "failed to store feedback"
	default:
		return "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
