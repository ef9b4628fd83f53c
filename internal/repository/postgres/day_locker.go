package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"communitycalendar/internal/domain"
)

// calendarLockSpace is the first key of every day lock, keeping them apart
// from other advisory locks taken on the same database.
const calendarLockSpace int64 = 0x63616c

type dayLocker struct {
	DB *sql.DB
}

// NewDayLocker returns a DayLocker backed by session-level advisory locks, so
// schedulers in separate processes sharing the database serialize per day.
func NewDayLocker(db *sql.DB) domain.DayLocker {
	return &dayLocker{DB: db}
}

func dayKey(d domain.Date) int64 {
	return d.In(time.UTC).Unix() / 86400
}

// LockDays holds one connection for the lifetime of the locks; unlocking
// releases every advisory lock of that session and returns the connection.
func (l *dayLocker) LockDays(ctx context.Context, from, to domain.Date) (func(), error) {
	conn, err := l.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire conn: %w", err)
	}
	release := func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock_all()`)
		_ = conn.Close()
	}
	for d := from; !d.After(to); d = d.AddDays(1) {
		if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1, $2)`, calendarLockSpace, dayKey(d)); err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", d, err)
		}
	}
	return release, nil
}
