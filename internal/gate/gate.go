// Package gate bounds the number of in-flight calls to the completion API
// and spaces successive calls by a minimum interval. Waiters are served in
// strict FIFO order.
package gate

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate is a FIFO semaphore with a minimum spacing between grants
type Gate struct {
	mu      sync.Mutex
	max     int
	held    int
	waiters list.List // of *waiter
	limiter *rate.Limiter
}

type waiter struct {
	// ready receives the grant delay once the permit is handed over
	ready chan time.Duration
}

// New creates a gate. maxConcurrent below 1 is coerced to 1 and a negative
// minInterval to 0.
func New(maxConcurrent int, minInterval time.Duration) *Gate {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if minInterval < 0 {
		minInterval = 0
	}

	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &Gate{
		max:     maxConcurrent,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Acquire blocks until a permit is available and the minimum interval since
// the previous grant has elapsed. It only fails when ctx is done, in which
// case no permit is held.
func (g *Gate) Acquire(ctx context.Context) error {
	g.mu.Lock()
	if g.held < g.max && g.waiters.Len() == 0 {
		g.held++
		delay := g.reserve()
		g.mu.Unlock()
		return g.wait(ctx, delay)
	}

	w := &waiter{ready: make(chan time.Duration, 1)}
	elem := g.waiters.PushBack(w)
	g.mu.Unlock()

	select {
	case delay := <-w.ready:
		return g.wait(ctx, delay)
	case <-ctx.Done():
		g.mu.Lock()
		select {
		case <-w.ready:
			// Granted while we were giving up; pass the permit on.
			g.mu.Unlock()
			g.Release()
		default:
			g.waiters.Remove(elem)
			g.mu.Unlock()
		}
		return ctx.Err()
	}
}

// Release returns a permit. If callers are queued the permit goes straight
// to the oldest one. Releasing without an outstanding permit is a no-op.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held == 0 {
		return
	}

	if front := g.waiters.Front(); front != nil {
		w := g.waiters.Remove(front).(*waiter)
		w.ready <- g.reserve()
		return
	}

	g.held--
}

// Held returns the number of permits currently handed out
func (g *Gate) Held() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}

// reserve books the next grant slot. Must be called with g.mu held so slots
// are booked in grant order.
func (g *Gate) reserve() time.Duration {
	return g.limiter.Reserve().Delay()
}

// wait sleeps until the booked slot. On cancellation the permit is released.
func (g *Gate) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		g.Release()
		return ctx.Err()
	}
}
