package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"communitycalendar/internal/domain"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	testNow    = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	errStore   = errors.New("connection refused")
)

// recordingHandler keeps every log record for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(_ string) slog.Handler { return h }

// messages returns the records whose message is msg.
func (h *recordingHandler) messages(msg string) []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Message == msg {
			out = append(out, r)
		}
	}
	return out
}

func recordAttrs(r slog.Record) map[string]string {
	attrs := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	return attrs
}

func strp(s string) *string { return &s }

func tod(s string) *domain.TimeOfDay {
	t := domain.MustParseTimeOfDay(s)
	return &t
}

func date(s string) domain.Date { return domain.MustParseDate(s) }

// allDayDef returns a valid single-day, all-day global definition.
func allDayDef(title, day string) domain.EventDefinition {
	return domain.EventDefinition{
		Title:     title,
		EventType: domain.EventTypeGeneral,
		Scope:     domain.ScopeGlobal,
		CreatedBy: "user-1",
		StartDate: date(day),
		IsAllDay:  true,
	}
}

func storedEvent(id, title, start, end string) *domain.CalendarEvent {
	return &domain.CalendarEvent{
		ID:        id,
		Title:     title,
		StartDate: date(start),
		EndDate:   date(end),
		IsAllDay:  true,
		EventType: domain.EventTypeGeneral,
		Scope:     domain.ScopeGlobal,
		CreatedBy: "user-1",
	}
}

// failingEventRepo wraps a repository and fails the configured operations.
type failingEventRepo struct {
	domain.EventRepository
	createErr error
	countErr  error
}

func (f *failingEventRepo) Create(ctx context.Context, e *domain.CalendarEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.EventRepository.Create(ctx, e)
}

func (f *failingEventRepo) CountOverlapping(ctx context.Context, from, to domain.Date) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.EventRepository.CountOverlapping(ctx, from, to)
}

// fakeTeamRepo is an in-memory TeamRepository for tests.
type fakeTeamRepo struct {
	byID      map[string]*domain.Team
	createErr error
	deleted   []string
}

func newFakeTeamRepo(teams ...*domain.Team) *fakeTeamRepo {
	f := &fakeTeamRepo{byID: make(map[string]*domain.Team)}
	for _, t := range teams {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = "team-new"
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTeamRepo) GetByResponsiblePerson(ctx context.Context, userID string) (*domain.Team, error) {
	for _, t := range f.byID {
		if t.ResponsiblePersonID != nil && *t.ResponsiblePersonID == userID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTeamRepo) List(ctx context.Context) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	lastIDs []string
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	f.lastIDs = ids
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeCoupleRepo is an in-memory CoupleRepository for tests.
type fakeCoupleRepo struct {
	couples   []*domain.Couple
	createErr error
}

func (f *fakeCoupleRepo) Create(ctx context.Context, c *domain.Couple) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = "couple-new"
	f.couples = append(f.couples, c)
	return nil
}

func (f *fakeCoupleRepo) GetByID(ctx context.Context, id string) (*domain.Couple, error) {
	for _, c := range f.couples {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCoupleRepo) ListByTeam(ctx context.Context, teamID string) ([]*domain.Couple, error) {
	var out []*domain.Couple
	for _, c := range f.couples {
		if c.TeamID != nil && *c.TeamID == teamID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeEncoder records the events it was asked to encode.
type fakeEncoder struct {
	events []*domain.CalendarEvent
	err    error
}

func (f *fakeEncoder) Encode(events []*domain.CalendarEvent) ([]byte, error) {
	f.events = events
	if f.err != nil {
		return nil, f.err
	}
	return []byte("BEGIN:VCALENDAR"), nil
}
