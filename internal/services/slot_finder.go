package services

import (
	"context"

	"github.com/samber/mo"

	"communitycalendar/internal/domain"
)

// AvailabilityFunc reports whether an event may start on date.
type AvailabilityFunc func(ctx context.Context, date domain.Date) (bool, error)

// SlotFinder walks forward one calendar day at a time looking for a date that
// satisfies an availability predicate.
type SlotFinder struct {
	MaxAttempts int
}

func NewSlotFinder(maxAttempts int) SlotFinder {
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultSlotSearchAttempts
	}
	return SlotFinder{MaxAttempts: maxAttempts}
}

// FindAvailableDate tests candidate, candidate+1, ... for at most f.MaxAttempts days
// (the first included) and returns the first available one, or None when the
// window is exhausted.
func (f SlotFinder) FindAvailableDate(ctx context.Context, candidate domain.Date, available AvailabilityFunc) (mo.Option[domain.Date], error) {
	return f.findWithin(ctx, candidate, f.MaxAttempts, available)
}

func (f SlotFinder) findWithin(ctx context.Context, candidate domain.Date, attempts int, available AvailabilityFunc) (mo.Option[domain.Date], error) {
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return mo.None[domain.Date](), err
		}
		date := candidate.AddDays(i)
		ok, err := available(ctx, date)
		if err != nil {
			return mo.None[domain.Date](), err
		}
		if ok {
			return mo.Some(date), nil
		}
	}
	return mo.None[domain.Date](), nil
}
