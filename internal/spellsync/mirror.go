package spellsync

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pixil98/go-spellbook/internal/spell"
)

// Mirror is the client's read-only copy of one player's slots and cooldowns. It is
// written only by Apply; Tick counts cooldowns down locally between snapshots.
type Mirror struct {
	mu sync.Mutex

	player    spell.PlayerId
	slots     spell.Slots
	cooldowns map[spell.AbilityId]int
	lastTick  uint64

	onChange func()
}

func NewMirror(player spell.PlayerId) *Mirror {
	return &Mirror{
		player:    player,
		cooldowns: make(map[spell.AbilityId]int),
	}
}

// OnChange registers fn to be called after every applied push or local tick.
func (m *Mirror) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Apply decodes a pushed message and replaces the field it carries.
func (m *Mirror) Apply(data []byte) error {
	msg, err := Decode(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if msg.Player != m.player {
		m.mu.Unlock()
		return fmt.Errorf("message for player %q applied to mirror of %q", msg.Player, m.player)
	}

	switch msg.Type {
	case MessageSlots:
		m.slots = msg.SlotArray()
	case MessageCooldowns:
		cds := make(map[spell.AbilityId]int, len(msg.Cooldowns))
		for _, cd := range msg.Cooldowns {
			cds[cd.Ability] = cd.Remaining
		}
		m.cooldowns = cds
	}
	if msg.Tick > m.lastTick {
		m.lastTick = msg.Tick
	}
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Tick extrapolates one tick locally. Entries are removed on reaching zero.
func (m *Mirror) Tick() {
	m.mu.Lock()
	for id, remaining := range m.cooldowns {
		if remaining <= 1 {
			delete(m.cooldowns, id)
			continue
		}
		m.cooldowns[id] = remaining - 1
	}
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (m *Mirror) Player() spell.PlayerId {
	return m.player
}

func (m *Mirror) Slots() spell.Slots {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots
}

func (m *Mirror) Remaining(ability spell.AbilityId) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cooldowns[ability]
}

// Cooldowns returns the mirrored cooldowns sorted by ability id.
func (m *Mirror) Cooldowns() []spell.Cooldown {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]spell.Cooldown, 0, len(m.cooldowns))
	for id, remaining := range m.cooldowns {
		out = append(out, spell.Cooldown{Ability: id, Remaining: remaining})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ability < out[j].Ability })
	return out
}

// LastTick is the newest authority tick seen in a push.
func (m *Mirror) LastTick() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTick
}
