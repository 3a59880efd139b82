package spell

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotCount is the number of action slots every player has.
const SlotCount = 4

// PlayerId identifies a connected player. All per-player state is keyed by it.
type PlayerId string

func (id PlayerId) String() string {
	return string(id)
}

// AbilityId identifies an ability in the Catalog. The empty id means "no ability".
type AbilityId string

func (id AbilityId) String() string {
	return string(id)
}

// Slot is an index into a player's action slots, valid in [0, SlotCount).
type Slot int

const (
	SlotTop Slot = iota
	SlotBottom
	SlotLeft
	SlotRight
)

var slotNames = [SlotCount]string{"top", "bottom", "left", "right"}

// Valid reports whether s is within [0, SlotCount).
func (s Slot) Valid() bool {
	return s >= 0 && s < SlotCount
}

func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// ParseSlot accepts a slot number or a slot name (top, bottom, left, right).
func ParseSlot(str string) (Slot, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	for i, name := range slotNames {
		if str == name {
			return Slot(i), nil
		}
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, str)
	}
	s := Slot(n)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSlot, n)
	}
	return s, nil
}

// Slots is the full slot array of one player. An empty AbilityId marks an empty slot.
type Slots [SlotCount]AbilityId

// Contains reports whether any slot holds the given ability.
func (s Slots) Contains(id AbilityId) bool {
	if id == "" {
		return false
	}
	for _, a := range s {
		if a == id {
			return true
		}
	}
	return false
}

// Cooldown is one non-ready ability and the ticks left before it can be cast again.
type Cooldown struct {
	Ability   AbilityId
	Remaining int
}

// State exposes the authoritative per-player view without taking the authority lock.
type State interface {
	Slots(PlayerId) Slots
	Cooldowns(PlayerId) []Cooldown
}
