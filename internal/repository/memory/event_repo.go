// Package memory provides in-process repositories used for dry runs and tests.
// Queries are expressed as explicit predicates over a map of events.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"communitycalendar/internal/domain"
)

// Predicate selects events.
type Predicate func(e *domain.CalendarEvent) bool

// OverlapsDay matches events covering day (start_date <= day AND end_date >= day).
func OverlapsDay(day domain.Date) Predicate {
	return func(e *domain.CalendarEvent) bool { return e.OverlapsDay(day) }
}

// OverlapsRange matches events intersecting the inclusive range [from, to].
func OverlapsRange(from, to domain.Date) Predicate {
	return func(e *domain.CalendarEvent) bool { return e.OverlapsRange(from, to) }
}

// InTeam matches events attached to teamID.
func InTeam(teamID string) Predicate {
	return func(e *domain.CalendarEvent) bool { return e.TeamID != nil && *e.TeamID == teamID }
}

// IsGlobal matches organization-wide events.
func IsGlobal() Predicate {
	return func(e *domain.CalendarEvent) bool { return e.Scope == domain.ScopeGlobal }
}

// OfType matches events of the given type.
func OfType(t domain.EventType) Predicate {
	return func(e *domain.CalendarEvent) bool { return e.EventType == t }
}

// Select returns the events matching every predicate, ordered by start date then id.
func Select(events map[string]*domain.CalendarEvent, preds ...Predicate) []*domain.CalendarEvent {
	out := make([]*domain.CalendarEvent, 0)
	for _, e := range events {
		if matchesAll(e, preds) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *domain.CalendarEvent) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// Count returns how many events match every predicate.
func Count(events map[string]*domain.CalendarEvent, preds ...Predicate) int {
	n := 0
	for _, e := range events {
		if matchesAll(e, preds) {
			n++
		}
	}
	return n
}

func matchesAll(e *domain.CalendarEvent, preds []Predicate) bool {
	for _, p := range preds {
		if !p(e) {
			return false
		}
	}
	return true
}

// EventRepository is a concurrency-safe domain.EventRepository backed by a map.
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.CalendarEvent
}

// NewEventRepository returns an empty in-memory EventRepository.
func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]*domain.CalendarEvent)}
}

// Load inserts events as-is, keeping their ids. Used to mirror a window of a real store.
func (r *EventRepository) Load(events []*domain.CalendarEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range events {
		r.events[e.ID] = clone(e)
	}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	r.events[e.ID] = clone(e)
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(e), nil
}

func (r *EventRepository) Update(ctx context.Context, e *domain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.events[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := clone(e)
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	r.events[e.ID] = updated
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *EventRepository) CountOverlapping(ctx context.Context, from, to domain.Date) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Count(r.events, OverlapsRange(from, to)), nil
}

func (r *EventRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.CalendarEvent, error) {
	return r.list(InTeam(teamID)), nil
}

func (r *EventRepository) ListGlobal(ctx context.Context) ([]*domain.CalendarEvent, error) {
	return r.list(IsGlobal()), nil
}

func (r *EventRepository) ListByDateRange(ctx context.Context, from, to domain.Date) ([]*domain.CalendarEvent, error) {
	return r.list(OverlapsRange(from, to)), nil
}

func (r *EventRepository) ListByType(ctx context.Context, t domain.EventType) ([]*domain.CalendarEvent, error) {
	return r.list(OfType(t)), nil
}

func (r *EventRepository) ListAll(ctx context.Context) ([]*domain.CalendarEvent, error) {
	return r.list(), nil
}

func (r *EventRepository) ClearTeam(ctx context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range Select(r.events, InTeam(teamID)) {
		e.TeamID = nil
	}
	return nil
}

func (r *EventRepository) list(preds ...Predicate) []*domain.CalendarEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	selected := Select(r.events, preds...)
	out := make([]*domain.CalendarEvent, len(selected))
	for i, e := range selected {
		out[i] = clone(e)
	}
	return out
}

func clone(e *domain.CalendarEvent) *domain.CalendarEvent {
	c := *e
	return &c
}

var _ domain.EventRepository = (*EventRepository)(nil)
