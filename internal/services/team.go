package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"communitycalendar/internal/domain"
)

type teamService struct {
	teamRepo       domain.TeamRepository
	coupleRepo     domain.CoupleRepository
	clock          clockwork.Clock
	contextTimeout time.Duration
}

func NewTeamService(teamRepo domain.TeamRepository, coupleRepo domain.CoupleRepository, clock clockwork.Clock, timeout time.Duration) domain.TeamService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &teamService{teamRepo: teamRepo, coupleRepo: coupleRepo, clock: clock, contextTimeout: timeout}
}

func (s *teamService) CreateTeam(ctx context.Context, caller domain.Principal, team *domain.Team) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if team.TeamNumber <= 0 {
		return domain.NewValidationError([]string{"team_number must be positive"})
	}
	now := s.clock.Now()
	team.CreatedAt = now
	team.UpdatedAt = now
	return s.teamRepo.Create(ctx, team)
}

func (s *teamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []*domain.Team{}
	}
	return teams, nil
}

// DeleteTeam removes the team. Its events stay on the calendar without a team.
func (s *teamService) DeleteTeam(ctx context.Context, caller domain.Principal, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

func (s *teamService) CreateCouple(ctx context.Context, caller domain.Principal, couple *domain.Couple) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := couple.Validate(); err != nil {
		return err
	}
	if couple.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *couple.TeamID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get team: %w", err)
		}
	}
	now := s.clock.Now()
	couple.CreatedAt = now
	couple.UpdatedAt = now
	return s.coupleRepo.Create(ctx, couple)
}

func (s *teamService) ListCouples(ctx context.Context, teamID string) ([]*domain.Couple, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	couples, err := s.coupleRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}
	if couples == nil {
		couples = []*domain.Couple{}
	}
	return couples, nil
}
