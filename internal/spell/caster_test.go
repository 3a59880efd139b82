package spell

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

type casterFixture struct {
	caster  *Caster
	catalog *Catalog
	slots   *SlotStore
	ledger  *Ledger
	holds   *HoldController
}

func newCasterFixture(ds ...*Descriptor) *casterFixture {
	f := &casterFixture{
		catalog: NewCatalog(),
		slots:   NewSlotStore(nil),
		ledger:  NewLedger(nil),
		holds:   NewHoldController(),
	}
	mustRegister(f.catalog, ds...)
	f.caster = NewCaster(f.catalog, f.slots, f.ledger, f.holds)
	return f
}

func TestCaster_Cast(t *testing.T) {
	tests := map[string]struct {
		setup       func(f *casterFixture, ia *instantAbility)
		slot        Slot
		expReason   error
		expCalls    int
		expCooldown int
	}{
		"success starts cooldown": {
			setup: func(f *casterFixture, _ *instantAbility) {
				_, _ = f.slots.Assign(context.Background(), "p1", SlotTop, "heal")
			},
			slot:        SlotTop,
			expCalls:    1,
			expCooldown: 60,
		},
		"invalid slot": {
			setup:     func(*casterFixture, *instantAbility) {},
			slot:      9,
			expReason: ErrInvalidSlot,
		},
		"empty slot": {
			setup:     func(*casterFixture, *instantAbility) {},
			slot:      SlotBottom,
			expReason: ErrEmptySlot,
		},
		"unknown ability": {
			setup: func(f *casterFixture, _ *instantAbility) {
				_, _ = f.slots.Assign(context.Background(), "p1", SlotTop, "vanished")
			},
			slot:      SlotTop,
			expReason: ErrUnknownAbility,
		},
		"on cooldown does not execute": {
			setup: func(f *casterFixture, _ *instantAbility) {
				_, _ = f.slots.Assign(context.Background(), "p1", SlotTop, "heal")
				_ = f.ledger.Start(context.Background(), "p1", "heal", 12)
			},
			slot:        SlotTop,
			expReason:   ErrOnCooldown,
			expCooldown: 12,
		},
		"precondition failed": {
			setup: func(f *casterFixture, ia *instantAbility) {
				_, _ = f.slots.Assign(context.Background(), "p1", SlotTop, "heal")
				ia.allowed = false
			},
			slot:      SlotTop,
			expReason: ErrPreconditionFailed,
		},
		"no effect charges nothing": {
			setup: func(f *casterFixture, ia *instantAbility) {
				_, _ = f.slots.Assign(context.Background(), "p1", SlotTop, "heal")
				ia.result = false
			},
			slot:      SlotTop,
			expReason: ErrNoEffect,
			expCalls:  1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			heal, ia := newInstant("heal", 60)
			f := newCasterFixture(heal)
			tt.setup(f, ia)

			d, err := f.caster.Cast(context.Background(), "p1", tt.slot, 1)
			if tt.expReason != nil {
				if !errors.Is(err, tt.expReason) {
					t.Fatalf("expected %v, got %v", tt.expReason, err)
				}
				var ce *CastError
				if !errors.As(err, &ce) {
					t.Fatalf("expected *CastError, got %T", err)
				}
				if errors.Is(tt.expReason, ErrOnCooldown) {
					testutil.AssertEqual(t, "reported remaining", ce.Remaining, tt.expCooldown)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "descriptor", d.Id, AbilityId("heal"))
			}

			testutil.AssertEqual(t, "execute calls", ia.calls, tt.expCalls)
			testutil.AssertEqual(t, "remaining", f.ledger.Remaining("p1", "heal"), tt.expCooldown)
		})
	}
}

func TestCaster_ZeroCooldownNeverCharges(t *testing.T) {
	blink, ia := newInstant("blink", 0)
	f := newCasterFixture(blink)
	_, _ = f.slots.Assign(context.Background(), "p1", SlotTop, "blink")

	for range 3 {
		if _, err := f.caster.Cast(context.Background(), "p1", SlotTop, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	testutil.AssertEqual(t, "calls", ia.calls, 3)
	testutil.AssertEqual(t, "ledger players", f.ledger.Len(), 0)
}

func TestCaster_HoldAbility(t *testing.T) {
	tests := map[string]struct {
		targets   int
		expReason error
		expActive bool
	}{
		"acquires targets": {
			targets:   3,
			expActive: true,
		},
		"no targets is no effect": {
			targets:   0,
			expReason: ErrNoEffect,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lev, _ := newShrinkingHold("levitate", 40, tt.targets)
			f := newCasterFixture(lev)
			_, _ = f.slots.Assign(context.Background(), "p1", SlotLeft, "levitate")

			_, err := f.caster.Cast(context.Background(), "p1", SlotLeft, 1)
			if tt.expReason != nil && !errors.Is(err, tt.expReason) {
				t.Fatalf("expected %v, got %v", tt.expReason, err)
			}
			if tt.expReason == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, active := f.holds.Active("p1")
			testutil.AssertEqual(t, "active", active, tt.expActive)

			expCooldown := 0
			if tt.expActive {
				expCooldown = 40
			}
			testutil.AssertEqual(t, "remaining", f.ledger.Remaining("p1", "levitate"), expCooldown)
		})
	}
}
