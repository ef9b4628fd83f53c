package services

import (
	"context"
	"fmt"

	"communitycalendar/internal/domain"
)

// CapacityChecker decides whether a day can host another event by counting
// the events whose date range covers it.
type CapacityChecker struct {
	events domain.EventRepository
}

func NewCapacityChecker(events domain.EventRepository) *CapacityChecker {
	return &CapacityChecker{events: events}
}

// IsDateAvailable reports whether fewer than maxPerDay events overlap date.
func (c *CapacityChecker) IsDateAvailable(ctx context.Context, date domain.Date, maxPerDay int) (bool, error) {
	n, err := c.events.CountOverlapping(ctx, date, date)
	if err != nil {
		return false, fmt.Errorf("count events on %s: %w", date, err)
	}
	return n < maxPerDay, nil
}

// IsSpanAvailable reports whether every day in [start, start+spanDays] is available.
// It stops at the first full day.
func (c *CapacityChecker) IsSpanAvailable(ctx context.Context, start domain.Date, spanDays, maxPerDay int) (bool, error) {
	for i := 0; i <= spanDays; i++ {
		ok, err := c.IsDateAvailable(ctx, start.AddDays(i), maxPerDay)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
