package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fb-analyzer/internal/domain"
	"fb-analyzer/internal/infra/metrics"
)

// Postgres реализует domain.FeedbackRepo на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.FeedbackRepo = (*Postgres)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS feedback_analyses (
    id             BIGSERIAL PRIMARY KEY,
    summary        TEXT NOT NULL,
    customer_text  TEXT NOT NULL DEFAULT '',
    sentiment_type TEXT NOT NULL,
    score          TEXT NOT NULL,
    based_on       TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу отзывов, если её ещё нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, schema)
	metrics.ObserveNetworkRequest("postgres", "ensure_schema", "feedback_analyses", start, err)
	if err != nil {
		return fmt.Errorf("%w: создание схемы: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Save вставляет отзыв и возвращает его с назначенным id.
func (p *Postgres) Save(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	err := p.pool.QueryRow(ctx, `
INSERT INTO feedback_analyses (summary, customer_text, sentiment_type, score, based_on)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at
`, fb.Summary, fb.CustomerText, fb.SentimentType, fb.Score, fb.BasedOn).Scan(&fb.ID, &fb.CreatedAt)
	metrics.ObserveNetworkRequest("postgres", "feedback_insert", "feedback_analyses", start, err)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("%w: сохранение отзыва: %w", domain.ErrPersistence, err)
	}
	return fb, nil
}

// FindAll возвращает все отзывы в порядке создания.
func (p *Postgres) FindAll(ctx context.Context) ([]domain.Feedback, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, summary, customer_text, sentiment_type, score, based_on, created_at
FROM feedback_analyses
ORDER BY id
`)
	metrics.ObserveNetworkRequest("postgres", "feedback_list", "feedback_analyses", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: выборка отзывов: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()
	out := make([]domain.Feedback, 0)
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.Summary, &fb.CustomerText, &fb.SentimentType, &fb.Score, &fb.BasedOn, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: чтение строки: %w", domain.ErrPersistence, err)
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return out, nil
}
