package screening

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

const DefaultConcurrency = 8

// Gate is a counting admission gate. Waiters are admitted in FIFO order as
// slots free up. A Gate may be shared by concurrent batches.
type Gate struct {
	size     int64
	sem      *semaphore.Weighted
	inFlight atomic.Int64
	peak     atomic.Int64
	admitted atomic.Int64
}

// NewGate returns a gate holding at most n pipelines; n <= 0 means
// DefaultConcurrency.
func NewGate(n int) *Gate {
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Gate{size: int64(n), sem: semaphore.NewWeighted(int64(n))}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.admitted.Add(1)
	cur := g.inFlight.Add(1)
	for {
		peak := g.peak.Load()
		if cur <= peak || g.peak.CompareAndSwap(peak, cur) {
			return nil
		}
	}
}

// Release frees a slot taken by Acquire.
func (g *Gate) Release() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

func (g *Gate) Size() int { return int(g.size) }

func (g *Gate) InFlight() int { return int(g.inFlight.Load()) }

// Peak is the highest number of pipelines seen in flight at once.
func (g *Gate) Peak() int { return int(g.peak.Load()) }

// Admitted is the total number of successful Acquire calls.
func (g *Gate) Admitted() int { return int(g.admitted.Load()) }
