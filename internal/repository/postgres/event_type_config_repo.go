package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"communitycalendar/internal/domain"
)

type eventTypeConfigRepository struct {
	DB *sql.DB
}

func NewEventTypeConfigRepository(db *sql.DB) domain.EventTypeConfigRepository {
	return &eventTypeConfigRepository{DB: db}
}

func scanEventTypeConfig(row rowScanner) (*domain.EventTypeConfig, error) {
	c := &domain.EventTypeConfig{}
	var eventType string
	var colorNull, iconNull sql.NullString
	if err := row.Scan(&c.ID, &eventType, &colorNull, &iconNull, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.EventType = domain.EventType(eventType)
	c.Color = nullableString(colorNull)
	c.Icon = nullableString(iconNull)
	return c, nil
}

func (r *eventTypeConfigRepository) GetAll(ctx context.Context) ([]*domain.EventTypeConfig, error) {
	query := `SELECT id, event_type, color, icon, updated_at FROM event_type_configs ORDER BY event_type`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	configs := make([]*domain.EventTypeConfig, 0)
	for rows.Next() {
		c, err := scanEventTypeConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *eventTypeConfigRepository) GetByID(ctx context.Context, id string) (*domain.EventTypeConfig, error) {
	query := `SELECT id, event_type, color, icon, updated_at FROM event_type_configs WHERE id = $1`
	c, err := scanEventTypeConfig(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *eventTypeConfigRepository) Create(ctx context.Context, c *domain.EventTypeConfig) error {
	query := `
		INSERT INTO event_type_configs (event_type, color, icon, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, string(c.EventType), c.Color, c.Icon, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.NewValidationError([]string{"event type " + string(c.EventType) + " is already configured"})
		}
		return err
	}
	return nil
}

func (r *eventTypeConfigRepository) Update(ctx context.Context, id string, color, icon *string) (*domain.EventTypeConfig, error) {
	query := `
		UPDATE event_type_configs
		SET color = $1, icon = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, event_type, color, icon, updated_at
	`
	c, err := scanEventTypeConfig(r.DB.QueryRowContext(ctx, query, color, icon, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
