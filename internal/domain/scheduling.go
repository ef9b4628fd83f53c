package domain

import (
	"context"
	"strings"
)

// DefaultMaxEventsPerDay is the system-wide daily event cap used when seeding.
const DefaultMaxEventsPerDay = 4

// DefaultSlotSearchAttempts bounds the forward search for a free day, first day included.
const DefaultSlotSearchAttempts = 30

// EventDefinition describes an event to be scheduled. EndDate defaults to
// StartDate; Recurrence, when set, is an RRULE (e.g. FREQ=MONTHLY;BYDAY=1SA;COUNT=6)
// and the definition's dates describe the first occurrence.
type EventDefinition struct {
	Title       string     `json:"title" yaml:"title"`
	Description *string    `json:"description" yaml:"description"`
	EventType   EventType  `json:"event_type" yaml:"event_type"`
	Scope       Scope      `json:"scope" yaml:"scope"`
	TeamID      *string    `json:"team_id" yaml:"team_id"`
	CreatedBy   string     `json:"created_by" yaml:"created_by"`
	StartDate   Date       `json:"start_date" yaml:"start_date"`
	EndDate     Date       `json:"end_date" yaml:"end_date"`
	StartTime   *TimeOfDay `json:"start_time" yaml:"start_time"`
	EndTime     *TimeOfDay `json:"end_time" yaml:"end_time"`
	IsAllDay    bool       `json:"is_all_day" yaml:"is_all_day"`
	Color       *string    `json:"color" yaml:"color"`
	Icon        *string    `json:"icon" yaml:"icon"`
	Recurrence  string     `json:"recurrence" yaml:"recurrence"`
}

// Normalized returns a copy with defaults applied (end date, scope, type, trimmed title).
func (d EventDefinition) Normalized() EventDefinition {
	d.Title = strings.TrimSpace(d.Title)
	if d.EndDate.IsZero() {
		d.EndDate = d.StartDate
	}
	if d.Scope == "" {
		if d.TeamID != nil && *d.TeamID != "" {
			d.Scope = ScopeTeam
		} else {
			d.Scope = ScopeGlobal
		}
	}
	if d.Scope == ScopeGlobal {
		d.TeamID = nil
	}
	if d.EventType == "" {
		d.EventType = EventTypeGeneral
	}
	d.Recurrence = strings.TrimSpace(d.Recurrence)
	return d
}

// Validate reports malformed input. Call it on a Normalized definition.
func (d EventDefinition) Validate() error {
	return d.ToEvent().Validate()
}

// ToEvent builds the transient, unsaved event described by d.
func (d EventDefinition) ToEvent() *CalendarEvent {
	return &CalendarEvent{
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		IsAllDay:    d.IsAllDay,
		EventType:   d.EventType,
		Scope:       d.Scope,
		TeamID:      d.TeamID,
		CreatedBy:   d.CreatedBy,
		Color:       d.Color,
		Icon:        d.Icon,
	}
}

// ScheduleStatus is the result category of one scheduling attempt.
type ScheduleStatus string

const (
	StatusPlaced    ScheduleStatus = "placed"
	StatusRelocated ScheduleStatus = "relocated"
	StatusSkipped   ScheduleStatus = "skipped"
	StatusFailed    ScheduleStatus = "failed"
)

// ScheduleOutcome describes what happened to one event of a batch.
// Event is nil for skipped and failed outcomes.
type ScheduleOutcome struct {
	Title         string         `json:"title"`
	Status        ScheduleStatus `json:"status"`
	OriginalStart Date           `json:"original_start"`
	Event         *CalendarEvent `json:"event,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// SeedReport summarizes a batch run.
// swagger:model SeedReport
type SeedReport struct {
	Placed    int                `json:"placed"`
	Relocated int                `json:"relocated"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Outcomes  []*ScheduleOutcome `json:"outcomes"`
}

// Add records an outcome and bumps the matching counter.
func (r *SeedReport) Add(o *ScheduleOutcome) {
	switch o.Status {
	case StatusPlaced:
		r.Placed++
	case StatusRelocated:
		r.Relocated++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Merge folds other into r.
func (r *SeedReport) Merge(other *SeedReport) {
	for _, o := range other.Outcomes {
		r.Add(o)
	}
}

// EventScheduler places events while respecting the daily capacity.
type EventScheduler interface {
	// ScheduleEvent places a definition, relocating it forward when its day is full.
	// Capacity exhaustion is a skipped outcome, not an error; errors are reserved
	// for malformed input (ErrInvalidInput) and store failures.
	ScheduleEvent(ctx context.Context, def EventDefinition) (*ScheduleOutcome, error)
	ScheduleMultiDayEvent(ctx context.Context, def EventDefinition) (*ScheduleOutcome, error)
	ScheduleRecurring(ctx context.Context, def EventDefinition) (*SeedReport, error)
	ScheduleBatch(ctx context.Context, defs []EventDefinition) *SeedReport
}

// CalendarService exposes the calendar to controllers with role-based visibility.
type CalendarService interface {
	ListCalendar(ctx context.Context, viewer Principal, filter EventFilter) ([]*DisplayEvent, error)
	GetEvent(ctx context.Context, viewer Principal, id string) (*DisplayEvent, error)
	CreateEvent(ctx context.Context, caller Principal, def EventDefinition) (*DisplayEvent, error)
	UpdateEvent(ctx context.Context, caller Principal, id string, def EventDefinition) (*DisplayEvent, error)
	DeleteEvent(ctx context.Context, caller Principal, id string) error
	Feed(ctx context.Context, viewer Principal, filter EventFilter) ([]byte, error)
}

// SeedingService runs bulk scheduling batches and reports on them.
type SeedingService interface {
	Seed(ctx context.Context, caller Principal, defs []EventDefinition) (*SeedReport, error)
}

// CalendarFeedEncoder renders events as an iCalendar document.
type CalendarFeedEncoder interface {
	Encode(events []*CalendarEvent) ([]byte, error)
}
