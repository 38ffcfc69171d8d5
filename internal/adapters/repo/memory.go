package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fb-analyzer/internal/domain"
)

// Memory хранит отзывы в памяти процесса. Используется, когда PG_DSN не задан.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	items  []domain.Feedback
	now    func() time.Time
}

var _ domain.FeedbackRepo = (*Memory)(nil)

// NewMemory создаёт пустое хранилище.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// Save назначает следующий id и сохраняет копию отзыва.
func (m *Memory) Save(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return domain.Feedback{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	fb.ID = m.nextID
	fb.CreatedAt = m.now().UTC()
	m.items = append(m.items, fb)
	return fb, nil
}

// FindAll возвращает копию всех отзывов в порядке id.
func (m *Memory) FindAll(ctx context.Context) ([]domain.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Feedback, len(m.items))
	copy(out, m.items)
	return out, nil
}
