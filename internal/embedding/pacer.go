package embedding

import (
	"context"
	"time"
)

// Pacer throttles batch submission to the remote embedding service so large
// ingestions do not trip provider rate limits. Pacing never reorders or
// drops items.
type Pacer interface {
	// Pace is called after each embedded item with its 0-based index and
	// may block before the next item is submitted.
	Pace(ctx context.Context, index int) error
}

// EveryN returns a Pacer that pauses for delay after every n items.
// The pause honors context cancellation.
func EveryN(n int, delay time.Duration) Pacer {
	if n <= 0 {
		n = 5
	}
	if delay <= 0 {
		delay = time.Second
	}
	return everyN{n: n, delay: delay}
}

type everyN struct {
	n     int
	delay time.Duration
}

func (p everyN) Pace(ctx context.Context, index int) error {
	if index == 0 || index%p.n != 0 {
		return nil
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Nop returns a Pacer that never pauses, for tests and local embedders.
func Nop() Pacer { return nopPacer{} }

type nopPacer struct{}

func (nopPacer) Pace(context.Context, int) error { return nil }
