package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"communitycalendar/internal/domain"
)

const eventColumns = `id, title, description, start_date, end_date, start_time, end_time, is_all_day,
		event_type, scope, team_id, created_by, color, icon, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.CalendarEvent, error) {
	e := &domain.CalendarEvent{}
	var descNull, teamNull, colorNull, iconNull sql.NullString
	var startTimeNull, endTimeNull sql.NullString
	var eventType, scope string
	err := row.Scan(
		&e.ID, &e.Title, &descNull, &e.StartDate, &e.EndDate, &startTimeNull, &endTimeNull, &e.IsAllDay,
		&eventType, &scope, &teamNull, &e.CreatedBy, &colorNull, &iconNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.EventType = domain.EventType(eventType)
	e.Scope = domain.Scope(scope)
	e.Description = nullableString(descNull)
	e.TeamID = nullableString(teamNull)
	e.Color = nullableString(colorNull)
	e.Icon = nullableString(iconNull)
	if e.StartTime, err = nullableTimeOfDay(startTimeNull); err != nil {
		return nil, err
	}
	if e.EndTime, err = nullableTimeOfDay(endTimeNull); err != nil {
		return nil, err
	}
	return e, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullableTimeOfDay(ns sql.NullString) (*domain.TimeOfDay, error) {
	if !ns.Valid {
		return nil, nil
	}
	var t domain.TimeOfDay
	if err := t.Scan(ns.String); err != nil {
		return nil, err
	}
	return &t, nil
}

func timeOfDayArg(t *domain.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (title, description, start_date, end_date, start_time, end_time, is_all_day,
			event_type, scope, team_id, created_by, color, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, timeOfDayArg(e.StartTime), timeOfDayArg(e.EndTime), e.IsAllDay,
		string(e.EventType), string(e.Scope), e.TeamID, e.CreatedBy, e.Color, e.Icon, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Update replaces every mutable field. created_by and created_at are kept.
func (r *eventRepository) Update(ctx context.Context, e *domain.CalendarEvent) error {
	query := `
		UPDATE calendar_events
		SET title = $1, description = $2, start_date = $3, end_date = $4, start_time = $5, end_time = $6,
			is_all_day = $7, event_type = $8, scope = $9, team_id = $10, color = $11, icon = $12, updated_at = $13
		WHERE id = $14
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, timeOfDayArg(e.StartTime), timeOfDayArg(e.EndTime),
		e.IsAllDay, string(e.EventType), string(e.Scope), e.TeamID, e.Color, e.Icon, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM calendar_events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountOverlapping(ctx context.Context, from, to domain.Date) (int, error) {
	query := `SELECT COUNT(*) FROM calendar_events WHERE start_date <= $1 AND end_date >= $2`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, to, from).Scan(&n); err != nil {
		return 0, fmt.Errorf("count overlapping events: %w", err)
	}
	return n, nil
}

func (r *eventRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.CalendarEvent, error) {
	return r.list(ctx, `WHERE team_id = $1`, teamID)
}

func (r *eventRepository) ListGlobal(ctx context.Context) ([]*domain.CalendarEvent, error) {
	return r.list(ctx, `WHERE scope = 'global'`)
}

func (r *eventRepository) ListByDateRange(ctx context.Context, from, to domain.Date) ([]*domain.CalendarEvent, error) {
	return r.list(ctx, `WHERE start_date <= $1 AND end_date >= $2`, to, from)
}

func (r *eventRepository) ListByType(ctx context.Context, eventType domain.EventType) ([]*domain.CalendarEvent, error) {
	return r.list(ctx, `WHERE event_type = $1`, string(eventType))
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.CalendarEvent, error) {
	return r.list(ctx, ``)
}

func (r *eventRepository) ClearTeam(ctx context.Context, teamID string) error {
	query := `UPDATE calendar_events SET team_id = NULL, updated_at = NOW() WHERE team_id = $1`
	_, err := r.DB.ExecContext(ctx, query, teamID)
	return err
}

func (r *eventRepository) list(ctx context.Context, where string, args ...any) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events ` + where + ` ORDER BY start_date, created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.CalendarEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
