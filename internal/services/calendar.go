package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"communitycalendar/internal/domain"
)

type calendarService struct {
	eventRepo      domain.EventRepository
	configRepo     domain.EventTypeConfigRepository
	teamRepo       domain.TeamRepository
	userRepo       domain.UserRepository
	projector      *CalendarProjector
	encoder        domain.CalendarFeedEncoder
	clock          clockwork.Clock
	contextTimeout time.Duration
}

func NewCalendarService(eventRepo domain.EventRepository,
	configRepo domain.EventTypeConfigRepository,
	teamRepo domain.TeamRepository,
	userRepo domain.UserRepository,
	projector *CalendarProjector,
	encoder domain.CalendarFeedEncoder,
	clock clockwork.Clock,
	timeout time.Duration,
) domain.CalendarService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &calendarService{
		eventRepo:      eventRepo,
		configRepo:     configRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		projector:      projector,
		encoder:        encoder,
		clock:          clock,
		contextTimeout: timeout,
	}
}

// canView: admins see everything, everyone else sees global events and the
// events of their own team.
func canView(viewer domain.Principal, e *domain.CalendarEvent) bool {
	if viewer.IsAdmin() || e.Scope == domain.ScopeGlobal {
		return true
	}
	return e.TeamID != nil && viewer.InTeam(*e.TeamID)
}

func matchesFilter(e *domain.CalendarEvent, f domain.EventFilter) bool {
	if !f.From.IsZero() && e.EndDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.StartDate.After(f.To) {
		return false
	}
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	if f.TeamID != "" && (e.TeamID == nil || *e.TeamID != f.TeamID) {
		return false
	}
	return true
}

func (s *calendarService) ListCalendar(ctx context.Context, viewer domain.Principal, filter domain.EventFilter) ([]*domain.DisplayEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.visibleEvents(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, events)
}

func (s *calendarService) Feed(ctx context.Context, viewer domain.Principal, filter domain.EventFilter) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.visibleEvents(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	feed, err := s.encoder.Encode(events)
	if err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	return feed, nil
}

// visibleEvents loads the narrowest candidate set the filter allows, then
// applies the remaining filter fields and the viewer's visibility.
func (s *calendarService) visibleEvents(ctx context.Context, viewer domain.Principal, filter domain.EventFilter) ([]*domain.CalendarEvent, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, domain.NewValidationError([]string{"to must not be before from"})
	}

	var (
		candidates []*domain.CalendarEvent
		err        error
	)
	switch {
	case !filter.From.IsZero() && !filter.To.IsZero():
		candidates, err = s.eventRepo.ListByDateRange(ctx, filter.From, filter.To)
	case filter.TeamID != "":
		candidates, err = s.eventRepo.ListByTeam(ctx, filter.TeamID)
	case filter.EventType != "":
		candidates, err = s.eventRepo.ListByType(ctx, filter.EventType)
	case viewer.IsAdmin():
		candidates, err = s.eventRepo.ListAll(ctx)
	default:
		candidates, err = s.eventRepo.ListGlobal(ctx)
		if err == nil && viewer.TeamID != nil {
			var own []*domain.CalendarEvent
			own, err = s.eventRepo.ListByTeam(ctx, *viewer.TeamID)
			candidates = append(candidates, own...)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]*domain.CalendarEvent, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, e := range candidates {
		if seen[e.ID] || !canView(viewer, e) || !matchesFilter(e, filter) {
			continue
		}
		seen[e.ID] = true
		events = append(events, e)
	}
	slices.SortStableFunc(events, func(a, b *domain.CalendarEvent) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return events, nil
}

func (s *calendarService) GetEvent(ctx context.Context, viewer domain.Principal, id string) (*domain.DisplayEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(viewer, event) {
		return nil, domain.ErrNotFound
	}
	return s.projectOne(ctx, event)
}

// CreateEvent stores def exactly as requested. Interactive creation does not
// relocate; the daily cap only governs bulk scheduling.
func (s *calendarService) CreateEvent(ctx context.Context, caller domain.Principal, def domain.EventDefinition) (*domain.DisplayEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	def.CreatedBy = caller.UserID
	event, err := s.prepare(ctx, caller, def)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.projectOne(ctx, event)
}

func (s *calendarService) UpdateEvent(ctx context.Context, caller domain.Principal, id string, def domain.EventDefinition) (*domain.DisplayEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && existing.CreatedBy != caller.UserID {
		return nil, domain.ErrForbidden
	}

	def.CreatedBy = existing.CreatedBy
	event, err := s.prepare(ctx, caller, def)
	if err != nil {
		return nil, err
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.clock.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.projectOne(ctx, event)
}

func (s *calendarService) DeleteEvent(ctx context.Context, caller domain.Principal, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && existing.CreatedBy != caller.UserID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *calendarService) getEvent(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// prepare validates def and checks that caller may publish into its scope:
// admins anywhere, a team's responsible person into that team.
func (s *calendarService) prepare(ctx context.Context, caller domain.Principal, def domain.EventDefinition) (*domain.CalendarEvent, error) {
	def = def.Normalized()
	if def.Recurrence != "" {
		return nil, domain.NewValidationError([]string{"recurring events are created through seeding"})
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	if def.Scope == domain.ScopeTeam {
		team, err := s.teamRepo.GetByID(ctx, *def.TeamID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewValidationError([]string{"team_id does not reference an existing team"})
			}
			return nil, fmt.Errorf("get team: %w", err)
		}
		if caller.IsAdmin() {
			return def.ToEvent(), nil
		}
		if team.ResponsiblePersonID == nil || *team.ResponsiblePersonID != caller.UserID {
			return nil, domain.ErrForbidden
		}
		return def.ToEvent(), nil
	}
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return def.ToEvent(), nil
}

func (s *calendarService) projectOne(ctx context.Context, event *domain.CalendarEvent) (*domain.DisplayEvent, error) {
	out, err := s.project(ctx, []*domain.CalendarEvent{event})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// project loads the type styles and the referenced teams and users once for
// the whole slice.
func (s *calendarService) project(ctx context.Context, events []*domain.CalendarEvent) ([]*domain.DisplayEvent, error) {
	configs, err := s.configRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event type configs: %w", err)
	}
	refs := ProjectionRefs{
		Teams: make(map[string]*domain.Team),
		Users: make(map[string]*domain.User),
	}

	needsTeams := false
	userIDs := make([]string, 0, len(events))
	for _, e := range events {
		if e.TeamID != nil {
			needsTeams = true
		}
		if !slices.Contains(userIDs, e.CreatedBy) {
			userIDs = append(userIDs, e.CreatedBy)
		}
	}

	if needsTeams {
		teams, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		for _, t := range teams {
			refs.Teams[t.ID] = t
		}
	}
	if len(userIDs) > 0 {
		users, err := s.userRepo.ListByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		for _, u := range users {
			refs.Users[u.ID] = u
		}
	}

	return s.projector.ProjectAll(events, domain.StylesFromConfigs(configs), refs), nil
}
