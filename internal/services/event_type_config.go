package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"communitycalendar/internal/domain"
)

type eventTypeConfigService struct {
	configRepo     domain.EventTypeConfigRepository
	clock          clockwork.Clock
	contextTimeout time.Duration
}

func NewEventTypeConfigService(configRepo domain.EventTypeConfigRepository, clock clockwork.Clock, timeout time.Duration) domain.EventTypeConfigService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &eventTypeConfigService{configRepo: configRepo, clock: clock, contextTimeout: timeout}
}

func (s *eventTypeConfigService) List(ctx context.Context) ([]*domain.EventTypeConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	configs, err := s.configRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event type configs: %w", err)
	}
	if configs == nil {
		configs = []*domain.EventTypeConfig{}
	}
	return configs, nil
}

// Update replaces the color and icon of a type configuration. A nil value
// clears the field so the type falls back to the default style.
func (s *eventTypeConfigService) Update(ctx context.Context, caller domain.Principal, id string, color, icon *string) (*domain.EventTypeConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	var problems []string
	if color != nil && !domain.IsHexColor(*color) {
		problems = append(problems, "color must be a #RRGGBB hex value")
	}
	if icon != nil && strings.TrimSpace(*icon) == "" {
		problems = append(problems, "icon must not be blank")
	}
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}

	updated, err := s.configRepo.Update(ctx, id, color, icon)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event type config: %w", err)
	}
	return updated, nil
}

// EnsureDefaults creates a configuration for every default whose event type has none yet.
// Existing rows are left untouched.
func (s *eventTypeConfigService) EnsureDefaults(ctx context.Context, defaults []*domain.EventTypeConfig) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.configRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list event type configs: %w", err)
	}
	have := make(map[domain.EventType]bool, len(existing))
	for _, c := range existing {
		have[c.EventType] = true
	}

	created := 0
	for _, d := range defaults {
		if have[d.EventType] {
			continue
		}
		c := &domain.EventTypeConfig{
			EventType: d.EventType,
			Color:     d.Color,
			Icon:      d.Icon,
			UpdatedAt: s.clock.Now(),
		}
		if err := s.configRepo.Create(ctx, c); err != nil {
			return created, fmt.Errorf("create %s config: %w", d.EventType, err)
		}
		have[d.EventType] = true
		created++
	}
	return created, nil
}
