package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fb-analyzer/internal/adapters/chat"
	"fb-analyzer/internal/adapters/httpapi"
	"fb-analyzer/internal/adapters/prompt"
	"fb-analyzer/internal/adapters/repo"
	"fb-analyzer/internal/domain"
	"fb-analyzer/internal/infra/config"
	"fb-analyzer/internal/infra/db"
	httpinfra "fb-analyzer/internal/infra/http"
	logger "fb-analyzer/internal/infra/log"
	"fb-analyzer/internal/infra/metrics"
	openai "fb-analyzer/internal/infra/openai"
	"fb-analyzer/internal/usecase/feedback"
)

func main() {
	cfg := config.Load()
	baseLog := logger.NewLogger(cfg.AppEnv)
	log.Logger = baseLog

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := newStore(ctx, cfg)
	defer closeStore()
	chatModel := newChatModel(cfg, baseLog)

	service := feedback.NewService(
		chatModel,
		prompt.NewBuilder(cfg.Prompt.TemplatePath),
		store,
		feedback.Config{CompanyName: cfg.Company.Name},
		componentLog(baseLog, "analyzer"),
	)

	srv := httpinfra.NewServer(componentLog(baseLog, "http"), httpinfra.Options{
		AllowedOrigin: cfg.HTTP.AllowedOrigin,
	})
	httpapi.NewHandler(service, componentLog(baseLog, "api"), cfg.HTTP.MaxUploadBytes).Register(srv.Router)

	go func() {
		if err := srv.Start(":" + strconv.Itoa(cfg.Port)); err != nil {
			log.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()
	<-ctx.Done()
	log.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api: ошибка остановки")
	}
}

func newStore(ctx context.Context, cfg config.AppConfig) (domain.FeedbackRepo, func()) {
	if cfg.PGDSN == "" {
		log.Warn().Msg("api: PG_DSN не задан, отзывы хранятся в памяти")
		return repo.NewMemory(), func() {}
	}
	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	pg := repo.NewPostgres(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("api: не удалось подготовить схему")
	}
	return pg, pool.Close
}

func newChatModel(cfg config.AppConfig, l zerolog.Logger) domain.ChatModel {
	if cfg.OpenAI.APIKey == "" {
		l.Warn().Msg("api: OPENAI_API_KEY не задан, используется заглушка модели")
		return chat.NewStub()
	}
	client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	return chat.NewOpenAI(client, cfg.OpenAI.Model)
}

func componentLog(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
