package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"communitycalendar/internal/domain"
)

// EventTypeConfigRepository keeps one style row per event type.
type EventTypeConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]*domain.EventTypeConfig
}

func NewEventTypeConfigRepository() *EventTypeConfigRepository {
	return &EventTypeConfigRepository{configs: make(map[string]*domain.EventTypeConfig)}
}

func (r *EventTypeConfigRepository) GetAll(ctx context.Context) ([]*domain.EventTypeConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.EventTypeConfig, 0, len(r.configs))
	for _, c := range r.configs {
		cp := *c
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.EventTypeConfig) int {
		switch {
		case a.EventType < b.EventType:
			return -1
		case a.EventType > b.EventType:
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *EventTypeConfigRepository) GetByID(ctx context.Context, id string) (*domain.EventTypeConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *EventTypeConfigRepository) Create(ctx context.Context, c *domain.EventTypeConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.configs {
		if existing.EventType == c.EventType {
			return domain.ErrInvalidInput
		}
	}
	c.ID = uuid.NewString()
	cp := *c
	r.configs[c.ID] = &cp
	return nil
}

func (r *EventTypeConfigRepository) Update(ctx context.Context, id string, color, icon *string) (*domain.EventTypeConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.configs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Color = color
	c.Icon = icon
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

var _ domain.EventTypeConfigRepository = (*EventTypeConfigRepository)(nil)
