package services

import (
	"time"

	"github.com/samber/mo"

	"communitycalendar/internal/domain"
)

const utcInstantLayout = "2006-01-02T15:04:05Z"

// ProjectionRefs carries the related records a projection may embed.
// Missing entries are rendered as nil references.
type ProjectionRefs struct {
	Teams map[string]*domain.Team
	Users map[string]*domain.User
}

// CalendarProjector converts stored events into calendar-widget display events.
// Times of day are interpreted in the configured local timezone.
type CalendarProjector struct {
	loc *time.Location
}

func NewCalendarProjector(loc *time.Location) *CalendarProjector {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarProjector{loc: loc}
}

// ResolveStyle picks the color and icon of e: the event's own override first,
// then its type configuration, then the default color and no icon.
func ResolveStyle(e *domain.CalendarEvent, styles domain.EventTypeStyles) (string, mo.Option[string]) {
	typeStyle := styles[e.EventType]

	color := domain.DefaultEventColor
	switch {
	case e.Color != nil && *e.Color != "":
		color = *e.Color
	case typeStyle.Color != nil && *typeStyle.Color != "":
		color = *typeStyle.Color
	}

	icon := mo.None[string]()
	switch {
	case e.Icon != nil && *e.Icon != "":
		icon = mo.Some(*e.Icon)
	case typeStyle.Icon != nil && *typeStyle.Icon != "":
		icon = mo.Some(*typeStyle.Icon)
	}
	return color, icon
}

// Project builds the display form of e.
func (p *CalendarProjector) Project(e *domain.CalendarEvent, styles domain.EventTypeStyles, refs ProjectionRefs) *domain.DisplayEvent {
	color, icon := ResolveStyle(e, styles)
	out := &domain.DisplayEvent{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventType:   e.EventType,
		Color:       color,
		Icon:        icon,
		Scope:       e.Scope,
	}

	// A timed event missing either time is shown as all-day rather than guessed.
	if e.IsAllDay || e.StartTime == nil || e.EndTime == nil {
		out.AllDay = true
		out.Start = e.StartDate.String()
		out.End = e.EndDate.AddDays(1).String()
	} else {
		out.Start = p.utc(e.StartDate, *e.StartTime)
		out.End = p.utc(e.EndDate, *e.EndTime)
	}

	if e.TeamID != nil {
		if team, ok := refs.Teams[*e.TeamID]; ok {
			out.Team = &domain.TeamRef{ID: team.ID, TeamNumber: team.TeamNumber}
		}
	}
	if u, ok := refs.Users[e.CreatedBy]; ok {
		out.Creator = &domain.CreatorRef{ID: u.ID, Name: u.Name, LastName: u.LastName, Email: u.Email}
	}
	return out
}

// ProjectAll projects events in order.
func (p *CalendarProjector) ProjectAll(events []*domain.CalendarEvent, styles domain.EventTypeStyles, refs ProjectionRefs) []*domain.DisplayEvent {
	out := make([]*domain.DisplayEvent, 0, len(events))
	for _, e := range events {
		out = append(out, p.Project(e, styles, refs))
	}
	return out
}

func (p *CalendarProjector) utc(d domain.Date, t domain.TimeOfDay) string {
	return t.On(d, p.loc).UTC().Format(utcInstantLayout)
}
