package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации ответа LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})

	FeedbackAnalysisSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedback_analysis_seconds",
		Help:    "Время полного анализа отзыва",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	})

	FeedbackAnalysisTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_analysis_total",
		Help: "Количество запросов на анализ отзыва",
	}, []string{"status"})

	FeedbackInputsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_inputs_total",
		Help: "Какие входные данные присылали в отзывах",
	}, []string{"kind"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
		FeedbackAnalysisSeconds,
		FeedbackAnalysisTotal,
		FeedbackInputsTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration записывает длительность и токены генерации LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// ObserveFeedbackAnalysis фиксирует итог анализа отзыва.
func ObserveFeedbackAnalysis(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FeedbackAnalysisSeconds.Observe(time.Since(start).Seconds())
	FeedbackAnalysisTotal.WithLabelValues(status).Inc()
}

// IncFeedbackInput считает вид входных данных: text или image.
func IncFeedbackInput(kind string) {
	FeedbackInputsTotal.WithLabelValues(kind).Inc()
}
