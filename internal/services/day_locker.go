package services

import (
	"context"
	"sync"

	"communitycalendar/internal/domain"
)

// dayLocker is an in-process domain.DayLocker. Each day is a one-slot semaphore;
// days are always taken in ascending order so overlapping spans cannot deadlock.
type dayLocker struct {
	mu   sync.Mutex
	days map[domain.Date]chan struct{}
}

// NewDayLocker returns a DayLocker that serializes schedulers within this process.
func NewDayLocker() domain.DayLocker {
	return &dayLocker{days: make(map[domain.Date]chan struct{})}
}

func (l *dayLocker) LockDays(ctx context.Context, from, to domain.Date) (func(), error) {
	var held []chan struct{}
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for d := from; !d.After(to); d = d.AddDays(1) {
		sem := l.semaphore(d)
		select {
		case sem <- struct{}{}:
			held = append(held, sem)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

func (l *dayLocker) semaphore(d domain.Date) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.days[d]
	if !ok {
		sem = make(chan struct{}, 1)
		l.days[d] = sem
	}
	return sem
}
