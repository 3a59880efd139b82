package driver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingTicker struct {
	name  string
	order *[]string
	err   error
}

func (c *countingTicker) Tick(context.Context) error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		failSecond bool
		expOrder   string
		expErr     string
	}{
		"runs every ticker in order": {
			expOrder: "a,b,c",
		},
		"stops at first failure": {
			failSecond: true,
			expOrder:   "a,b",
			expErr:     "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var order []string
			second := &countingTicker{name: "b", order: &order}
			if tt.failSecond {
				second.err = errors.New("boom")
			}
			d := NewDriver([]Ticker{
				&countingTicker{name: "a", order: &order},
				second,
				&countingTicker{name: "c", order: &order},
			})

			err := d.Tick(context.Background())
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "order", strings.Join(order, ","), tt.expOrder)
		})
	}
}

func TestDriver_StartRejectsShortTicks(t *testing.T) {
	d := NewDriver(nil, WithTickLength(time.Millisecond))
	testutil.AssertErrorContains(t, d.Start(context.Background()), "below")
}

func TestDriver_StartStopsOnContext(t *testing.T) {
	var order []string
	d := NewDriver([]Ticker{&countingTicker{name: "a", order: &order}}, WithTickLength(MinTickLength))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) == 0 {
		t.Error("expected at least one tick")
	}
}

func TestDriver_StartReturnsTickerError(t *testing.T) {
	var order []string
	d := NewDriver([]Ticker{&countingTicker{name: "a", order: &order, err: errors.New("boom")}}, WithTickLength(MinTickLength))

	testutil.AssertErrorContains(t, d.Start(context.Background()), "boom")
}
