package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"communitycalendar/internal/domain"
)

const (
	teamNumberConstraint  = "teams_team_number_key"
	responsibleConstraint = "teams_responsible_person_id_key"
)

type teamRepository struct {
	DB *sql.DB
}

func NewTeamRepository(db *sql.DB) domain.TeamRepository {
	return &teamRepository{DB: db}
}

func (r *teamRepository) Create(ctx context.Context, t *domain.Team) error {
	query := `
		INSERT INTO teams (team_number, responsible_person_id, chaplain_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, t.TeamNumber, t.ResponsiblePersonID, t.ChaplainName, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			if perr.Constraint == responsibleConstraint {
				return domain.ErrResponsibleAlreadyAssigned
			}
			return domain.ErrDuplicateTeamNumber
		}
		return err
	}
	return nil
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	t := &domain.Team{}
	var responsibleNull, chaplainNull sql.NullString
	if err := row.Scan(&t.ID, &t.TeamNumber, &responsibleNull, &chaplainNull, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ResponsiblePersonID = nullableString(responsibleNull)
	t.ChaplainName = nullableString(chaplainNull)
	return t, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	query := `
		SELECT id, team_number, responsible_person_id, chaplain_name, created_at, updated_at
		FROM teams
		WHERE id = $1
	`
	t, err := scanTeam(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *teamRepository) GetByResponsiblePerson(ctx context.Context, userID string) (*domain.Team, error) {
	query := `
		SELECT id, team_number, responsible_person_id, chaplain_name, created_at, updated_at
		FROM teams
		WHERE responsible_person_id = $1
	`
	t, err := scanTeam(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *teamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	query := `
		SELECT id, team_number, responsible_person_id, chaplain_name, created_at, updated_at
		FROM teams
		ORDER BY team_number
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	teams := make([]*domain.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Delete detaches the team's events and couples and removes the team in one transaction.
func (r *teamRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE calendar_events SET team_id = NULL, updated_at = NOW() WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("detach events: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE couples SET team_id = NULL, updated_at = NOW() WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("detach couples: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = domain.ErrNotFound
		return err
	}
	return tx.Commit()
}
