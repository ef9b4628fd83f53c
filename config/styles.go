package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"communitycalendar/internal/domain"
)

type stylesFile struct {
	EventTypes []*domain.EventTypeConfig `yaml:"event_types"`
}

// LoadEventTypeStyles returns the default event type styles. With an empty
// path it returns the built-in defaults; otherwise it reads a YAML file of the form
//
//	event_types:
//	  - event_type: training
//	    color: "#10b981"
//	    icon: BookOpen
func LoadEventTypeStyles(path string) ([]*domain.EventTypeConfig, error) {
	if path == "" {
		return domain.DefaultEventTypeConfigs(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event type styles: %w", err)
	}
	return parseEventTypeStyles(raw)
}

func parseEventTypeStyles(raw []byte) ([]*domain.EventTypeConfig, error) {
	var f stylesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse event type styles: %w", err)
	}
	seen := make(map[domain.EventType]bool, len(f.EventTypes))
	var problems []string
	for i, c := range f.EventTypes {
		switch {
		case c.EventType == "":
			problems = append(problems, fmt.Sprintf("event_types[%d]: event_type is required", i))
		case seen[c.EventType]:
			problems = append(problems, fmt.Sprintf("event_types[%d]: duplicate event_type %q", i, c.EventType))
		}
		seen[c.EventType] = true
		if c.Color != nil && !domain.IsHexColor(*c.Color) {
			problems = append(problems, fmt.Sprintf("event_types[%d]: color must be a #RRGGBB hex value", i))
		}
	}
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}
	return f.EventTypes, nil
}
