package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateTeamNumber        = errors.New("team number already in use")
	ErrResponsibleAlreadyAssigned = errors.New("user is already responsible for another team")
	ErrDuplicateCouple            = errors.New("user already belongs to a couple")
)

// Team groups couples under a responsible person.
// swagger:model Team
type Team struct {
	ID                  string    `json:"id"`
	TeamNumber          int       `json:"team_number"`
	ResponsiblePersonID *string   `json:"responsible_person_id"`
	ChaplainName        *string   `json:"chaplain_name"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Couple is a household record linking exactly two user accounts.
// swagger:model Couple
type Couple struct {
	ID              string    `json:"id"`
	TeamID          *string   `json:"team_id"`
	PrimaryUserID   string    `json:"primary_user_id"`
	SecondaryUserID string    `json:"secondary_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks that the couple links two distinct users.
func (c *Couple) Validate() error {
	var problems []string
	if c.PrimaryUserID == "" || c.SecondaryUserID == "" {
		problems = append(problems, "a couple requires two users")
	} else if c.PrimaryUserID == c.SecondaryUserID {
		problems = append(problems, "a couple must link two distinct users")
	}
	return NewValidationError(problems)
}

// TeamRepository defines storage for teams.
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	GetByResponsiblePerson(ctx context.Context, userID string) (*Team, error)
	List(ctx context.Context) ([]*Team, error)
	// Delete removes the team and nulls team_id on its events in one transaction.
	Delete(ctx context.Context, id string) error
}

// CoupleRepository defines storage for couples.
type CoupleRepository interface {
	Create(ctx context.Context, couple *Couple) error
	GetByID(ctx context.Context, id string) (*Couple, error)
	ListByTeam(ctx context.Context, teamID string) ([]*Couple, error)
}

// TeamService manages teams and their couples. Mutations require an admin caller.
type TeamService interface {
	CreateTeam(ctx context.Context, caller Principal, team *Team) error
	ListTeams(ctx context.Context) ([]*Team, error)
	DeleteTeam(ctx context.Context, caller Principal, id string) error
	CreateCouple(ctx context.Context, caller Principal, couple *Couple) error
	ListCouples(ctx context.Context, teamID string) ([]*Couple, error)
}
