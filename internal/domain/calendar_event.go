package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// EventType classifies calendar events. The set is open-ended; styles for
// unknown types fall back to the default color.
type EventType string

const (
	EventTypeGeneral          EventType = "general"
	EventTypeTraining         EventType = "training"
	EventTypeSpiritualRetreat EventType = "spiritual_retreat"
	EventTypeTeamMeeting      EventType = "team_meeting"
)

// KnownEventTypes lists the built-in event types in display order.
var KnownEventTypes = []EventType{
	EventTypeGeneral,
	EventTypeTraining,
	EventTypeSpiritualRetreat,
	EventTypeTeamMeeting,
}

// Scope controls who can see an event.
type Scope string

const (
	ScopeTeam   Scope = "team"
	ScopeGlobal Scope = "global"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether s has the #RRGGBB form.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// CalendarEvent is a stored calendar entry.
// swagger:model CalendarEvent
type CalendarEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	StartTime   *TimeOfDay `json:"start_time"`
	EndTime     *TimeOfDay `json:"end_time"`
	IsAllDay    bool       `json:"is_all_day"`
	EventType   EventType  `json:"event_type"`
	Scope       Scope      `json:"scope"`
	TeamID      *string    `json:"team_id"`
	CreatedBy   string     `json:"created_by"`
	Color       *string    `json:"color"`
	Icon        *string    `json:"icon"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SpanDays returns EndDate - StartDate in calendar days (0 for single-day events).
func (e *CalendarEvent) SpanDays() int {
	return e.StartDate.DaysUntil(e.EndDate)
}

// OverlapsDay reports whether the event covers day (inclusive on both ends),
// so multi-day events count against every day they span.
func (e *CalendarEvent) OverlapsDay(day Date) bool {
	return !e.StartDate.After(day) && !e.EndDate.Before(day)
}

// OverlapsRange reports whether the event intersects the inclusive range [from, to].
func (e *CalendarEvent) OverlapsRange(from, to Date) bool {
	return !e.StartDate.After(to) && !e.EndDate.Before(from)
}

// ShiftTo moves the event so it starts on start, keeping its span and times of day.
func (e *CalendarEvent) ShiftTo(start Date) {
	span := e.SpanDays()
	e.StartDate = start
	e.EndDate = start.AddDays(span)
}

// Validate checks the structural invariants of an event.
func (e *CalendarEvent) Validate() error {
	var problems []string
	if strings.TrimSpace(e.Title) == "" {
		problems = append(problems, "title is required")
	}
	problems = append(problems, validateDates(e.StartDate, e.EndDate, e.StartTime, e.EndTime, e.IsAllDay)...)
	if e.EventType == "" {
		problems = append(problems, "event_type is required")
	}
	problems = append(problems, validateScope(e.Scope, e.TeamID)...)
	if e.CreatedBy == "" {
		problems = append(problems, "created_by is required")
	}
	problems = append(problems, validateStyle(e.Color, e.Icon)...)
	return NewValidationError(problems)
}

func validateDates(start, end Date, startTime, endTime *TimeOfDay, allDay bool) []string {
	var problems []string
	if start.IsZero() {
		problems = append(problems, "start_date is required")
	}
	if end.IsZero() {
		problems = append(problems, "end_date is required")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		problems = append(problems, "end_date must not be before start_date")
	}
	if allDay {
		if startTime != nil || endTime != nil {
			problems = append(problems, "all-day events must not have start_time or end_time")
		}
		return problems
	}
	if startTime == nil || endTime == nil {
		problems = append(problems, "timed events require both start_time and end_time")
		return problems
	}
	if start.Equal(end) && !endTime.After(*startTime) {
		problems = append(problems, "end_time must be after start_time")
	}
	return problems
}

func validateScope(scope Scope, teamID *string) []string {
	switch scope {
	case ScopeTeam:
		if teamID == nil || *teamID == "" {
			return []string{"team_id is required for team scope"}
		}
	case ScopeGlobal:
	default:
		return []string{fmt.Sprintf("unknown scope %q", scope)}
	}
	return nil
}

func validateStyle(color, icon *string) []string {
	var problems []string
	if color != nil && !IsHexColor(*color) {
		problems = append(problems, "color must be a #RRGGBB hex value")
	}
	if icon != nil && strings.TrimSpace(*icon) == "" {
		problems = append(problems, "icon must not be blank")
	}
	return problems
}

// EventFilter narrows calendar listings. Zero fields are ignored.
type EventFilter struct {
	From      Date
	To        Date
	EventType EventType
	TeamID    string
}

// EventRepository is the persistence port for calendar events.
type EventRepository interface {
	Create(ctx context.Context, event *CalendarEvent) error
	GetByID(ctx context.Context, id string) (*CalendarEvent, error)
	Update(ctx context.Context, event *CalendarEvent) error
	Delete(ctx context.Context, id string) error
	// CountOverlapping counts events with start_date <= to AND end_date >= from.
	CountOverlapping(ctx context.Context, from, to Date) (int, error)
	ListByTeam(ctx context.Context, teamID string) ([]*CalendarEvent, error)
	ListGlobal(ctx context.Context) ([]*CalendarEvent, error)
	ListByDateRange(ctx context.Context, from, to Date) ([]*CalendarEvent, error)
	ListByType(ctx context.Context, eventType EventType) ([]*CalendarEvent, error)
	ListAll(ctx context.Context) ([]*CalendarEvent, error)
	// ClearTeam detaches every event from the team (team_id set to null).
	ClearTeam(ctx context.Context, teamID string) error
}

// DayLocker serializes placement decisions per calendar day. LockDays blocks
// until every day in [from, to] is held and returns the release function.
type DayLocker interface {
	LockDays(ctx context.Context, from, to Date) (unlock func(), err error)
}
