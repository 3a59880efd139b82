package spell

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSlotStore_Assign(t *testing.T) {
	tests := map[string]struct {
		initial    Slots
		slot       Slot
		ability    AbilityId
		expErr     error
		expChanged bool
		expPushes  int
	}{
		"assign empty slot": {
			slot:       SlotTop,
			ability:    "heal",
			expChanged: true,
			expPushes:  1,
		},
		"replace existing": {
			initial:    Slots{"heal"},
			slot:       SlotTop,
			ability:    "bolt",
			expChanged: true,
			expPushes:  1,
		},
		"same value is not pushed": {
			initial:   Slots{"heal"},
			slot:      SlotTop,
			ability:   "heal",
			expPushes: 0,
		},
		"clear slot": {
			initial:    Slots{"", "", "heal"},
			slot:       SlotLeft,
			ability:    "",
			expChanged: true,
			expPushes:  1,
		},
		"slot out of range": {
			slot:    7,
			ability: "heal",
			expErr:  ErrInvalidSlot,
		},
		"negative slot": {
			slot:    -1,
			ability: "heal",
			expErr:  ErrInvalidSlot,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := &recordingSyncer{}
			s := NewSlotStore(rec)
			s.Load("p1", tt.initial)

			changed, err := s.Assign(context.Background(), "p1", tt.slot, tt.ability)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				testutil.AssertEqual(t, "slots", s.Snapshot("p1"), tt.initial)
				testutil.AssertEqual(t, "pushes", len(rec.slotPushes), 0)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "changed", changed, tt.expChanged)
			testutil.AssertEqual(t, "pushes", len(rec.slotPushes), tt.expPushes)

			got, err := s.Get("p1", tt.slot)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "stored", got, tt.ability)
			if tt.expPushes > 0 {
				testutil.AssertEqual(t, "pushed slots", rec.slotPushes[0], s.Snapshot("p1"))
			}
		})
	}
}

func TestSlotStore_AssignLastWriteWins(t *testing.T) {
	s := NewSlotStore(nil)
	ctx := context.Background()

	for _, a := range []AbilityId{"heal", "bolt", "levitate"} {
		if _, err := s.Assign(ctx, "p1", SlotRight, a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, _ := s.Get("p1", SlotRight)
	testutil.AssertEqual(t, "slot", got, AbilityId("levitate"))
}

func TestSlotStore_GetInvalid(t *testing.T) {
	s := NewSlotStore(nil)
	if _, err := s.Assign(context.Background(), "p1", 7, "heal"); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected invalid slot, got %v", err)
	}

	_, err := s.Get("p1", 7)
	if !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected invalid slot, got %v", err)
	}
	testutil.AssertEqual(t, "players", s.Len(), 0)
}

func TestSlotStore_Clear(t *testing.T) {
	s := NewSlotStore(nil)
	_, _ = s.Assign(context.Background(), "p1", SlotTop, "heal")
	_, _ = s.Assign(context.Background(), "p2", SlotTop, "heal")

	s.Clear("p1")

	testutil.AssertEqual(t, "players", s.Len(), 1)
	testutil.AssertEqual(t, "p1 slots", s.Snapshot("p1"), Slots{})
	got, _ := s.Get("p2", SlotTop)
	testutil.AssertEqual(t, "p2 slot", got, AbilityId("heal"))
}
