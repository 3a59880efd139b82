package spellsync

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-spellbook/internal/spell"
)

type MessageType string

const (
	// MessageSlots carries the full slot array of one player.
	MessageSlots MessageType = "slots"
	// MessageCooldowns carries every non-ready cooldown of one player.
	MessageCooldowns MessageType = "cooldowns"
)

// CooldownEntry is one (ability, remaining ticks) pair on the wire.
type CooldownEntry struct {
	Ability   spell.AbilityId `json:"ability"`
	Remaining int             `json:"remaining"`
}

// Message is a single authority to mirror push. Every message is a whole snapshot of
// the field it names; mirrors replace, they never merge.
type Message struct {
	Type      MessageType       `json:"type"`
	Player    spell.PlayerId    `json:"player"`
	Tick      uint64            `json:"tick"`
	Slots     []spell.AbilityId `json:"slots,omitempty"`
	Cooldowns []CooldownEntry   `json:"cooldowns,omitempty"`
}

func NewSlotsMessage(player spell.PlayerId, tick uint64, slots spell.Slots) *Message {
	return &Message{
		Type:   MessageSlots,
		Player: player,
		Tick:   tick,
		Slots:  slots[:],
	}
}

func NewCooldownsMessage(player spell.PlayerId, tick uint64, cds []spell.Cooldown) *Message {
	entries := make([]CooldownEntry, 0, len(cds))
	for _, cd := range cds {
		entries = append(entries, CooldownEntry{Ability: cd.Ability, Remaining: cd.Remaining})
	}
	return &Message{
		Type:      MessageCooldowns,
		Player:    player,
		Tick:      tick,
		Cooldowns: entries,
	}
}

func (m *Message) Validate() error {
	el := errors.NewErrorList()

	if m.Player == "" {
		el.Add(fmt.Errorf("player must be set"))
	}

	switch m.Type {
	case MessageSlots:
		if len(m.Slots) != spell.SlotCount {
			el.Add(fmt.Errorf("slots: expected %d entries, got %d", spell.SlotCount, len(m.Slots)))
		}
	case MessageCooldowns:
		for i, cd := range m.Cooldowns {
			if cd.Ability == "" {
				el.Add(fmt.Errorf("cooldowns[%d]: ability must be set", i))
			}
			if cd.Remaining <= 0 {
				el.Add(fmt.Errorf("cooldowns[%d]: remaining must be positive, got %d", i, cd.Remaining))
			}
		}
	default:
		el.Add(fmt.Errorf("unknown message type %q", m.Type))
	}

	return el.Err()
}

// SlotArray returns the slots carried by a slots message.
func (m *Message) SlotArray() spell.Slots {
	var s spell.Slots
	copy(s[:], m.Slots)
	return s
}

func Encode(m *Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses and validates a pushed message.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding sync message: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sync message: %w", err)
	}
	return &m, nil
}
