package spell

import (
	"context"
	"fmt"
	"sort"
)

// CooldownListener is notified after a cooldown is started, with the player's full cooldown set.
type CooldownListener interface {
	CooldownStarted(ctx context.Context, player PlayerId, cooldowns []Cooldown)
}

// Ledger tracks remaining cooldown ticks per player and ability.
// An entry exists only while its remaining ticks are positive; no entry means ready.
type Ledger struct {
	players  map[PlayerId]map[AbilityId]int
	listener CooldownListener
}

func NewLedger(listener CooldownListener) *Ledger {
	return &Ledger{
		players:  make(map[PlayerId]map[AbilityId]int),
		listener: listener,
	}
}

// IsReady reports whether the ability has no cooldown running for the player.
func (l *Ledger) IsReady(player PlayerId, ability AbilityId) bool {
	return l.Remaining(player, ability) == 0
}

// Remaining returns the ticks left on the cooldown, or 0 when ready.
func (l *Ledger) Remaining(player PlayerId, ability AbilityId) int {
	return l.players[player][ability]
}

// Start inserts or overwrites the cooldown for ability.
func (l *Ledger) Start(ctx context.Context, player PlayerId, ability AbilityId, ticks int) error {
	if ticks <= 0 {
		return fmt.Errorf("cooldown for %q must be positive, got %d", ability, ticks)
	}

	entries, ok := l.players[player]
	if !ok {
		entries = make(map[AbilityId]int)
		l.players[player] = entries
	}
	entries[ability] = ticks

	if l.listener != nil {
		l.listener.CooldownStarted(ctx, player, l.Snapshot(player))
	}
	return nil
}

// Tick decrements every cooldown of the player by one and removes the ones that reach zero.
func (l *Ledger) Tick(player PlayerId) {
	entries, ok := l.players[player]
	if !ok {
		return
	}

	for ability, remaining := range entries {
		remaining--
		if remaining <= 0 {
			delete(entries, ability)
			continue
		}
		entries[ability] = remaining
	}

	if len(entries) == 0 {
		delete(l.players, player)
	}
}

// Snapshot returns the player's running cooldowns sorted by ability id.
func (l *Ledger) Snapshot(player PlayerId) []Cooldown {
	entries := l.players[player]
	if len(entries) == 0 {
		return nil
	}

	cds := make([]Cooldown, 0, len(entries))
	for ability, remaining := range entries {
		cds = append(cds, Cooldown{Ability: ability, Remaining: remaining})
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].Ability < cds[j].Ability })
	return cds
}

// Clear drops every cooldown of the player.
func (l *Ledger) Clear(player PlayerId) {
	delete(l.players, player)
}

// Len returns the number of players with at least one running cooldown.
func (l *Ledger) Len() int {
	return len(l.players)
}
