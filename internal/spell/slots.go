package spell

import (
	"context"
	"fmt"
)

// SlotListener is notified whenever a player's slot array actually changes.
type SlotListener interface {
	SlotsChanged(ctx context.Context, player PlayerId, slots Slots)
}

// SlotStore holds the slot assignments of every connected player.
type SlotStore struct {
	players  map[PlayerId]*Slots
	listener SlotListener
}

func NewSlotStore(listener SlotListener) *SlotStore {
	return &SlotStore{
		players:  make(map[PlayerId]*Slots),
		listener: listener,
	}
}

// Assign puts ability into slot, replacing what was there. An empty ability clears the slot.
// The listener is only notified when the stored value changes.
func (s *SlotStore) Assign(ctx context.Context, player PlayerId, slot Slot, ability AbilityId) (bool, error) {
	if !slot.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}

	slots, ok := s.players[player]
	if !ok {
		slots = &Slots{}
		s.players[player] = slots
	}

	if slots[slot] == ability {
		return false, nil
	}
	slots[slot] = ability

	if s.listener != nil {
		s.listener.SlotsChanged(ctx, player, *slots)
	}
	return true, nil
}

// Get returns the ability in slot, or the empty id.
func (s *SlotStore) Get(player PlayerId, slot Slot) (AbilityId, error) {
	if !slot.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}
	slots, ok := s.players[player]
	if !ok {
		return "", nil
	}
	return slots[slot], nil
}

// Snapshot returns a copy of the player's slot array.
func (s *SlotStore) Snapshot(player PlayerId) Slots {
	slots, ok := s.players[player]
	if !ok {
		return Slots{}
	}
	return *slots
}

// Load replaces the player's slots without notifying the listener.
func (s *SlotStore) Load(player PlayerId, slots Slots) {
	cp := slots
	s.players[player] = &cp
}

// Clear drops all state for the player.
func (s *SlotStore) Clear(player PlayerId) {
	delete(s.players, player)
}

// Len returns the number of players with slot state.
func (s *SlotStore) Len() int {
	return len(s.players)
}
