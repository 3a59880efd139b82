package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = 50 * time.Millisecond
	MinTickLength     = 10 * time.Millisecond
)

// Ticker is advanced once per driver tick.
type Ticker interface {
	Tick(context.Context) error
}

// Driver is the authoritative clock. Tickers run one after another on a single goroutine.
type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
}

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start ticks until ctx is done or a ticker fails.
func (d *Driver) Start(ctx context.Context) error {
	if d.tickLength < MinTickLength {
		return fmt.Errorf("tick length %s is below the %s minimum", d.tickLength, MinTickLength)
	}

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick_length", d.tickLength)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
	}
	return nil
}
