package domain

import (
	"context"
	"time"
)

// DefaultEventColor is used when neither the event nor its type configures a color.
const DefaultEventColor = "#3b82f6"

// EventTypeConfig holds the default style for one event type.
// swagger:model EventTypeConfig
type EventTypeConfig struct {
	ID        string    `json:"id"`
	EventType EventType `json:"event_type" yaml:"event_type"`
	Color     *string   `json:"color" yaml:"color"`
	Icon      *string   `json:"icon" yaml:"icon"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// EventStyle is the color/icon pair of a type configuration.
type EventStyle struct {
	Color *string
	Icon  *string
}

// EventTypeStyles maps each configured event type to its default style.
type EventTypeStyles map[EventType]EventStyle

// StylesFromConfigs builds the lookup map used by the projector.
func StylesFromConfigs(configs []*EventTypeConfig) EventTypeStyles {
	styles := make(EventTypeStyles, len(configs))
	for _, c := range configs {
		styles[c.EventType] = EventStyle{Color: c.Color, Icon: c.Icon}
	}
	return styles
}

func strPtr(s string) *string { return &s }

// DefaultEventTypeConfigs returns the built-in style for each known event type.
func DefaultEventTypeConfigs() []*EventTypeConfig {
	return []*EventTypeConfig{
		{EventType: EventTypeGeneral, Color: strPtr("#3b82f6"), Icon: strPtr("Calendar")},
		{EventType: EventTypeTraining, Color: strPtr("#10b981"), Icon: strPtr("BookOpen")},
		{EventType: EventTypeSpiritualRetreat, Color: strPtr("#8b5cf6"), Icon: strPtr("Heart")},
		{EventType: EventTypeTeamMeeting, Color: strPtr("#f59e0b"), Icon: strPtr("Users")},
	}
}

// EventTypeConfigRepository stores one row per event type (unique on event_type).
type EventTypeConfigRepository interface {
	GetAll(ctx context.Context) ([]*EventTypeConfig, error)
	GetByID(ctx context.Context, id string) (*EventTypeConfig, error)
	Create(ctx context.Context, config *EventTypeConfig) error
	Update(ctx context.Context, id string, color, icon *string) (*EventTypeConfig, error)
}

// EventTypeConfigService exposes style configuration to controllers.
type EventTypeConfigService interface {
	List(ctx context.Context) ([]*EventTypeConfig, error)
	Update(ctx context.Context, caller Principal, id string, color, icon *string) (*EventTypeConfig, error)
	EnsureDefaults(ctx context.Context, defaults []*EventTypeConfig) (created int, err error)
}
