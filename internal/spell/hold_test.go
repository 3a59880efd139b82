package spell

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestHoldController_AdvanceUntilIdle(t *testing.T) {
	lev, sh := newShrinkingHold("levitate", 0, 3)
	h := NewHoldController()
	ctx := context.Background()
	cc := CastContext{Player: "p1", Ability: "levitate", Tick: 1}

	ok := h.Begin(ctx, cc, lev, lev.Hold.Acquire(ctx, cc))
	testutil.AssertEqual(t, "began", ok, true)

	for tick, want := range []int{2, 1} {
		cc.Tick = uint64(tick + 2)
		h.Advance(ctx, cc)
		s, active := h.Active("p1")
		testutil.AssertEqual(t, "active", active, true)
		testutil.AssertEqual(t, "targets", len(s.Targets()), want)
	}

	h.Advance(ctx, cc)
	_, active := h.Active("p1")
	testutil.AssertEqual(t, "active after last target", active, false)
	testutil.AssertEqual(t, "ended", sh.ended, 1)
	testutil.AssertEqual(t, "sessions", h.Len(), 0)
}

func TestHoldController_BeginReplacesExisting(t *testing.T) {
	lev, levState := newShrinkingHold("levitate", 0, 3)
	grip, _ := newShrinkingHold("grip", 0, 2)
	h := NewHoldController()
	ctx := context.Background()
	cc := CastContext{Player: "p1", Tick: 1}

	h.Begin(ctx, cc, lev, lev.Hold.Acquire(ctx, cc))
	h.Begin(ctx, cc, grip, grip.Hold.Acquire(ctx, cc))

	s, ok := h.Active("p1")
	testutil.AssertEqual(t, "active", ok, true)
	testutil.AssertEqual(t, "ability", s.Ability.Id, AbilityId("grip"))
	testutil.AssertEqual(t, "sessions", h.Len(), 1)
	testutil.AssertEqual(t, "first ended", levState.ended, 1)
	testutil.AssertEqual(t, "first released", len(levState.released), 0)
}

func TestHoldController_BeginDeduplicatesTargets(t *testing.T) {
	lev, _ := newShrinkingHold("levitate", 0, 0)
	h := NewHoldController()
	ctx := context.Background()

	h.Begin(ctx, CastContext{Player: "p1"}, lev, []Target{"a", "b", "a"})
	s, _ := h.Active("p1")
	testutil.AssertEqual(t, "targets", len(s.Targets()), 2)
}

func TestHoldController_Release(t *testing.T) {
	tests := map[string]struct {
		active     bool
		expErr     error
		expRelease int
	}{
		"release active session": {
			active:     true,
			expRelease: 3,
		},
		"release while idle": {
			expErr: ErrNothingHeld,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lev, sh := newShrinkingHold("levitate", 0, 3)
			h := NewHoldController()
			ctx := context.Background()
			cc := CastContext{Player: "p1", Tick: 4}
			if tt.active {
				h.Begin(ctx, cc, lev, lev.Hold.Acquire(ctx, cc))
			}

			err := h.Release(ctx, cc)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "released", len(sh.released), tt.expRelease)
			testutil.AssertEqual(t, "sessions", h.Len(), 0)
		})
	}
}
