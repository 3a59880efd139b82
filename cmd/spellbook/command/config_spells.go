package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-spellbook/internal/spell"
	"github.com/pixil98/go-spellbook/internal/spellsync"
	"github.com/pixil98/go-spellbook/internal/storage"
)

type SpellsConfig struct {
	// CooldownSyncInterval is the ticks between cooldown snapshots. Nil uses the default, 0 disables.
	CooldownSyncInterval *uint64 `json:"cooldown_sync_interval,omitempty"`
	// SlotResyncInterval is the ticks between full slot resyncs. Nil uses the default, 0 disables.
	SlotResyncInterval *uint64  `json:"slot_resync_interval,omitempty"`
	RequireLearned     bool     `json:"require_learned"`
	StartingSpells     []string `json:"starting_spells"`
}

func (c *SpellsConfig) validate() error {
	el := errors.NewErrorList()

	for i, id := range c.StartingSpells {
		if !storage.ValidIdentifier(id) {
			el.Add(fmt.Errorf("starting_spells %d: %q is not a valid ability id", i, id))
		}
	}

	return el.Err()
}

func (c *SpellsConfig) channelOpts() []spellsync.ChannelOpt {
	var opts []spellsync.ChannelOpt
	if c.CooldownSyncInterval != nil {
		opts = append(opts, spellsync.WithCooldownInterval(*c.CooldownSyncInterval))
	}
	if c.SlotResyncInterval != nil {
		opts = append(opts, spellsync.WithSlotResyncInterval(*c.SlotResyncInterval))
	}
	return opts
}

func (c *SpellsConfig) startingSpells() []spell.AbilityId {
	ids := make([]spell.AbilityId, len(c.StartingSpells))
	for i, id := range c.StartingSpells {
		ids[i] = spell.AbilityId(id)
	}
	return ids
}

// checkStartingSpells fails when a starting spell is missing from the loaded catalog.
func (c *SpellsConfig) checkStartingSpells(catalog *spell.Catalog) error {
	el := errors.NewErrorList()
	for _, id := range c.startingSpells() {
		if _, ok := catalog.Get(id); !ok {
			el.Add(fmt.Errorf("starting spell %q: %w", id, spell.ErrUnknownAbility))
		}
	}
	return el.Err()
}
