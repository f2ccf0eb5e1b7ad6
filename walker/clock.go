package walker

import (
	"context"
	"time"
)

// Clock paces the loop. Wait blocks until the next tick is due and returns
// the context's error if it is cancelled first.
type Clock interface {
	Wait(ctx context.Context) error
}

// TickerClock paces ticks with a time.Ticker.
type TickerClock struct {
	ticker *time.Ticker
}

func NewTickerClock(interval time.Duration) *TickerClock {
	return &TickerClock{ticker: time.NewTicker(interval)}
}

func (c *TickerClock) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
		return nil
	}
}

func (c *TickerClock) Stop() {
	c.ticker.Stop()
}

// ManualClock never waits. It counts the ticks it was asked to pace.
type ManualClock struct {
	Waits int
}

func (c *ManualClock) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Waits++
	return nil
}
