package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"communitycalendar/internal/domain"
)

// SchedulerConfig tunes the capacity rules of an eventScheduler.
type SchedulerConfig struct {
	MaxPerDay   int
	MaxAttempts int
}

type eventScheduler struct {
	events    domain.EventRepository
	checker   *CapacityChecker
	finder    SlotFinder
	locker    domain.DayLocker
	clock     clockwork.Clock
	logger    *slog.Logger
	maxPerDay int
}

// NewEventScheduler returns a scheduler that places events one at a time, each
// decision reading the store state left by the previous placements. Passing a
// shared locker makes concurrent schedulers respect the daily cap as well.
func NewEventScheduler(events domain.EventRepository, locker domain.DayLocker, clock clockwork.Clock, logger *slog.Logger, cfg SchedulerConfig) domain.EventScheduler {
	if cfg.MaxPerDay <= 0 {
		cfg.MaxPerDay = domain.DefaultMaxEventsPerDay
	}
	if locker == nil {
		locker = NewDayLocker()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &eventScheduler{
		events:    events,
		checker:   NewCapacityChecker(events),
		finder:    NewSlotFinder(cfg.MaxAttempts),
		locker:    locker,
		clock:     clock,
		logger:    logger,
		maxPerDay: cfg.MaxPerDay,
	}
}

func (s *eventScheduler) ScheduleEvent(ctx context.Context, def domain.EventDefinition) (*domain.ScheduleOutcome, error) {
	def = def.Normalized()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if def.Recurrence != "" {
		return nil, domain.NewValidationError([]string{"recurring definitions must be scheduled with ScheduleRecurring"})
	}
	return s.place(ctx, def.ToEvent())
}

func (s *eventScheduler) ScheduleMultiDayEvent(ctx context.Context, def domain.EventDefinition) (*domain.ScheduleOutcome, error) {
	return s.ScheduleEvent(ctx, def)
}

func (s *eventScheduler) ScheduleRecurring(ctx context.Context, def domain.EventDefinition) (*domain.SeedReport, error) {
	def = def.Normalized()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if def.Recurrence == "" {
		return nil, domain.NewValidationError([]string{"recurrence is required"})
	}
	occurrences, err := occurrenceDefinitions(def)
	if err != nil {
		return nil, err
	}
	report := &domain.SeedReport{}
	for _, occ := range occurrences {
		report.Add(s.scheduleItem(ctx, occ))
	}
	return report, nil
}

// ScheduleBatch schedules defs in order. A failing item is recorded and the
// batch moves on; the returned report always covers every definition.
func (s *eventScheduler) ScheduleBatch(ctx context.Context, defs []domain.EventDefinition) *domain.SeedReport {
	report := &domain.SeedReport{}
	for _, def := range defs {
		if def.Recurrence == "" {
			report.Add(s.scheduleItem(ctx, def))
			continue
		}
		sub, err := s.ScheduleRecurring(ctx, def)
		if err != nil {
			report.Add(s.failed(def, err))
			continue
		}
		report.Merge(sub)
	}
	return report
}

func (s *eventScheduler) scheduleItem(ctx context.Context, def domain.EventDefinition) *domain.ScheduleOutcome {
	outcome, err := s.ScheduleEvent(ctx, def)
	if err != nil {
		return s.failed(def, err)
	}
	return outcome
}

func (s *eventScheduler) failed(def domain.EventDefinition, err error) *domain.ScheduleOutcome {
	if errors.Is(err, domain.ErrInvalidInput) {
		s.logger.Warn("event rejected", "title", def.Title, "start_date", def.StartDate.String(), "err", err)
	} else {
		s.logger.Error("event scheduling failed", "title", def.Title, "start_date", def.StartDate.String(), "err", err)
	}
	return &domain.ScheduleOutcome{
		Title:         def.Title,
		Status:        domain.StatusFailed,
		OriginalStart: def.StartDate,
		Error:         err.Error(),
	}
}

// place puts event on its requested start date when every day of its span has
// room, otherwise on the first later start date whose whole span has room.
// The chosen span is re-checked under the day locks before the insert.
func (s *eventScheduler) place(ctx context.Context, event *domain.CalendarEvent) (*domain.ScheduleOutcome, error) {
	original := event.StartDate
	span := event.SpanDays()
	available := func(ctx context.Context, date domain.Date) (bool, error) {
		return s.checker.IsSpanAvailable(ctx, date, span, s.maxPerDay)
	}

	candidate := original
	remaining := s.finder.MaxAttempts
	for remaining > 0 {
		found, err := s.finder.findWithin(ctx, candidate, remaining, available)
		if err != nil {
			return nil, err
		}
		date, ok := found.Get()
		if !ok {
			break
		}

		placed, err := s.insertIfAvailable(ctx, event, date, span, available)
		if err != nil {
			return nil, err
		}
		if placed {
			return s.placedOutcome(event, original), nil
		}
		remaining -= candidate.DaysUntil(date) + 1
		candidate = date.AddDays(1)
	}

	s.logger.Warn("event skipped",
		"title", event.Title,
		"original_date", original.String(),
		"max_attempts", s.finder.MaxAttempts,
		"max_per_day", s.maxPerDay,
	)
	return &domain.ScheduleOutcome{
		Title:         event.Title,
		Status:        domain.StatusSkipped,
		OriginalStart: original,
	}, nil
}

func (s *eventScheduler) insertIfAvailable(ctx context.Context, event *domain.CalendarEvent, date domain.Date, span int, available AvailabilityFunc) (bool, error) {
	unlock, err := s.locker.LockDays(ctx, date, date.AddDays(span))
	if err != nil {
		return false, fmt.Errorf("lock days from %s: %w", date, err)
	}
	defer unlock()

	ok, err := available(ctx, date)
	if err != nil || !ok {
		return false, err
	}
	event.ShiftTo(date)
	now := s.clock.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.events.Create(ctx, event); err != nil {
		return false, fmt.Errorf("create event %q: %w", event.Title, err)
	}
	return true, nil
}

func (s *eventScheduler) placedOutcome(event *domain.CalendarEvent, original domain.Date) *domain.ScheduleOutcome {
	outcome := &domain.ScheduleOutcome{
		Title:         event.Title,
		Status:        domain.StatusPlaced,
		OriginalStart: original,
		Event:         event,
	}
	if !event.StartDate.Equal(original) {
		outcome.Status = domain.StatusRelocated
		s.logger.Info("event relocated",
			"title", event.Title,
			"original_date", original.String(),
			"new_date", event.StartDate.String(),
		)
	}
	return outcome
}
