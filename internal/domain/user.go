package domain

import (
	"context"
	"errors"
	"slices"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Role codes carried in access tokens.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents a registered member account.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		LastName:  lastName,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Principal is the authenticated caller as described by its access token.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
	TeamID *string
}

func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, RoleAdmin)
}

// InTeam reports whether the caller belongs to teamID.
func (p Principal) InTeam(teamID string) bool {
	return p.TeamID != nil && *p.TeamID == teamID
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(principal Principal, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the principal it was issued for.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// UserRepository defines the read side of user storage needed by the calendar.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}
