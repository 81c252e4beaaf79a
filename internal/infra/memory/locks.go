package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// keyLocks is a set of named binary semaphores. Channels rather than
// sync.Mutex so acquisition can give up on timeout or cancellation.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]chan struct{}
}

func newKeyLocks() *keyLocks {
	return &keyLocks{m: make(map[string]chan struct{})}
}

func (l *keyLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.m[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.m[key] = ch
	}
	return ch
}

func (l *keyLocks) acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	ch := l.slot(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, httperr.ErrReservationTimeout()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
