package spellsync

import (
	"context"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-spellbook/internal/spell"
)

func mustEncode(t *testing.T, m *Message) []byte {
	t.Helper()
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestMirror_Apply(t *testing.T) {
	tests := map[string]struct {
		msg          *Message
		expErr       string
		expSlots     spell.Slots
		expCooldowns []spell.Cooldown
	}{
		"slots replace": {
			msg:          NewSlotsMessage("p", 3, spell.Slots{"heal", "", "bolt", ""}),
			expSlots:     spell.Slots{"heal", "", "bolt", ""},
			expCooldowns: []spell.Cooldown{{Ability: "old", Remaining: 9}},
		},
		"cooldowns replace wholesale": {
			msg:          NewCooldownsMessage("p", 20, []spell.Cooldown{{Ability: "heal", Remaining: 45}}),
			expSlots:     spell.Slots{"old"},
			expCooldowns: []spell.Cooldown{{Ability: "heal", Remaining: 45}},
		},
		"other player": {
			msg:          NewSlotsMessage("q", 3, spell.Slots{"heal"}),
			expErr:       "applied to mirror",
			expSlots:     spell.Slots{"old"},
			expCooldowns: []spell.Cooldown{{Ability: "old", Remaining: 9}},
		},
		"short slot array": {
			msg:          &Message{Type: MessageSlots, Player: "p", Slots: []spell.AbilityId{"heal"}},
			expErr:       "expected 4 entries",
			expSlots:     spell.Slots{"old"},
			expCooldowns: []spell.Cooldown{{Ability: "old", Remaining: 9}},
		},
		"non-positive remaining": {
			msg:          &Message{Type: MessageCooldowns, Player: "p", Cooldowns: []CooldownEntry{{Ability: "heal"}}},
			expErr:       "remaining must be positive",
			expSlots:     spell.Slots{"old"},
			expCooldowns: []spell.Cooldown{{Ability: "old", Remaining: 9}},
		},
		"unknown type": {
			msg:          &Message{Type: "inventory", Player: "p"},
			expErr:       "unknown message type",
			expSlots:     spell.Slots{"old"},
			expCooldowns: []spell.Cooldown{{Ability: "old", Remaining: 9}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMirror("p")
			_ = m.Apply(mustEncode(t, NewSlotsMessage("p", 1, spell.Slots{"old"})))
			_ = m.Apply(mustEncode(t, NewCooldownsMessage("p", 1, []spell.Cooldown{{Ability: "old", Remaining: 9}})))

			err := m.Apply(mustEncode(t, tt.msg))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "slots", m.Slots(), tt.expSlots)
			if got := m.Cooldowns(); !slices.Equal(got, tt.expCooldowns) {
				t.Errorf("cooldowns = %v, want %v", got, tt.expCooldowns)
			}
		})
	}
}

func TestMirror_ApplyRejectsGarbage(t *testing.T) {
	m := NewMirror("p")
	testutil.AssertErrorContains(t, m.Apply([]byte("{not json")), "decoding sync message")
}

func TestMirror_LocalExtrapolation(t *testing.T) {
	m := NewMirror("p")
	_ = m.Apply(mustEncode(t, NewCooldownsMessage("p", 0, []spell.Cooldown{
		{Ability: "bolt", Remaining: 3},
		{Ability: "heal", Remaining: 10},
	})))

	prev := m.Remaining("heal")
	for range 15 {
		m.Tick()
		for _, cd := range m.Cooldowns() {
			if cd.Remaining <= 0 {
				t.Fatalf("non-positive entry %+v", cd)
			}
		}
		got := m.Remaining("heal")
		if got > prev || got < 0 {
			t.Fatalf("remaining went from %d to %d", prev, got)
		}
		prev = got
	}

	testutil.AssertEqual(t, "heal", m.Remaining("heal"), 0)
	testutil.AssertEqual(t, "entries", len(m.Cooldowns()), 0)
}

func TestMirror_TracksAuthority(t *testing.T) {
	ctx := context.Background()
	tr := &recordingTransport{}
	a := newSyncedAuthority(t, tr)
	m := NewMirror("p")

	_ = a.Connect(ctx, "p", nil)
	_ = a.Assign(ctx, "p", spell.SlotBottom, "heal")
	for range 5 {
		_ = a.Tick(ctx)
	}
	_, _ = a.Cast(ctx, "p", spell.SlotTop)
	_, _ = a.Cast(ctx, "p", spell.SlotBottom)

	// Pushes produced during one tick reach the mirror before the next one.
	delivered := 0
	for range 70 {
		for ; delivered < len(tr.raw); delivered++ {
			if err := m.Apply(tr.raw[delivered]); err != nil {
				t.Fatalf("apply: %v", err)
			}
		}
		_ = a.Tick(ctx)
		m.Tick()
		testutil.AssertEqual(t, "remaining", m.Remaining("heal"), a.Remaining("p", "heal"))
	}

	testutil.AssertEqual(t, "slots", m.Slots(), spell.Slots{"", "heal", "", ""})
	testutil.AssertEqual(t, "ready", m.Remaining("heal"), 0)
}

func TestMirror_OnChange(t *testing.T) {
	m := NewMirror("p")
	calls := 0
	m.OnChange(func() { calls++ })

	_ = m.Apply(mustEncode(t, NewSlotsMessage("p", 1, spell.Slots{})))
	m.Tick()
	_ = m.Apply([]byte("nope"))

	testutil.AssertEqual(t, "calls", calls, 2)
}
