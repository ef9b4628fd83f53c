package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"communitycalendar/internal/domain"
)

type coupleRepository struct {
	DB *sql.DB
}

func NewCoupleRepository(db *sql.DB) domain.CoupleRepository {
	return &coupleRepository{DB: db}
}

func (r *coupleRepository) Create(ctx context.Context, c *domain.Couple) error {
	query := `
		INSERT INTO couples (team_id, primary_user_id, secondary_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.TeamID, c.PrimaryUserID, c.SecondaryUserID, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateCouple
		}
		return err
	}
	return nil
}

func scanCouple(row rowScanner) (*domain.Couple, error) {
	c := &domain.Couple{}
	var teamNull sql.NullString
	if err := row.Scan(&c.ID, &teamNull, &c.PrimaryUserID, &c.SecondaryUserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.TeamID = nullableString(teamNull)
	return c, nil
}

func (r *coupleRepository) GetByID(ctx context.Context, id string) (*domain.Couple, error) {
	query := `
		SELECT id, team_id, primary_user_id, secondary_user_id, created_at, updated_at
		FROM couples
		WHERE id = $1
	`
	c, err := scanCouple(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *coupleRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.Couple, error) {
	query := `
		SELECT id, team_id, primary_user_id, secondary_user_id, created_at, updated_at
		FROM couples
		WHERE team_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	couples := make([]*domain.Couple, 0)
	for rows.Next() {
		c, err := scanCouple(rows)
		if err != nil {
			return nil, err
		}
		couples = append(couples, c)
	}
	return couples, rows.Err()
}
