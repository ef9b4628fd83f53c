package domain

import "github.com/samber/mo"

// TeamRef identifies the team an event belongs to in client payloads.
type TeamRef struct {
	ID         string `json:"id"`
	TeamNumber int    `json:"team_number"`
}

// CreatorRef identifies who authored an event in client payloads.
type CreatorRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

// DisplayEvent is the calendar-widget representation of a CalendarEvent.
// Start/End are date-only strings for all-day events (End exclusive) and
// UTC instants formatted as YYYY-MM-DDTHH:MM:SSZ otherwise.
// swagger:model DisplayEvent
type DisplayEvent struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	AllDay      bool              `json:"all_day"`
	EventType   EventType         `json:"event_type"`
	Color       string            `json:"color"`
	Icon        mo.Option[string] `json:"icon" swaggertype:"string"`
	Scope       Scope             `json:"scope"`
	Team        *TeamRef          `json:"team"`
	Creator     *CreatorRef       `json:"creator"`
}
