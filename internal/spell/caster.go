package spell

import (
	"context"
	"fmt"
)

// Caster validates and runs casts. Validation stops at the first failing step:
//
//  1. the slot must hold an ability
//  2. the ability must be in the catalog
//  3. the ability must not be on cooldown
//  4. the ability's own precondition must pass
//  5. the ability runs; a false result (or no targets for a held ability) is ErrNoEffect
//  6. the cooldown starts
type Caster struct {
	catalog *Catalog
	slots   *SlotStore
	ledger  *Ledger
	holds   *HoldController
}

func NewCaster(catalog *Catalog, slots *SlotStore, ledger *Ledger, holds *HoldController) *Caster {
	return &Caster{
		catalog: catalog,
		slots:   slots,
		ledger:  ledger,
		holds:   holds,
	}
}

// Cast casts whatever is in slot for the player. On success it returns the descriptor
// that ran. Every rejection is a *CastError.
func (c *Caster) Cast(ctx context.Context, player PlayerId, slot Slot, tick uint64) (*Descriptor, error) {
	fail := func(reason error, ability AbilityId) error {
		return &CastError{Reason: reason, Player: player, Slot: slot, Ability: ability}
	}

	abilityId, err := c.slots.Get(player, slot)
	if err != nil {
		return nil, fail(ErrInvalidSlot, "")
	}
	if abilityId == "" {
		return nil, fail(ErrEmptySlot, "")
	}

	d, ok := c.catalog.Get(abilityId)
	if !ok {
		return nil, fail(ErrUnknownAbility, abilityId)
	}

	if remaining := c.ledger.Remaining(player, abilityId); remaining > 0 {
		return nil, &CastError{
			Reason:    ErrOnCooldown,
			Player:    player,
			Slot:      slot,
			Ability:   abilityId,
			Remaining: remaining,
		}
	}

	cc := CastContext{Player: player, Ability: abilityId, Tick: tick}
	if !d.canCast(ctx, cc) {
		return nil, fail(ErrPreconditionFailed, abilityId)
	}

	if !c.execute(ctx, cc, d) {
		return nil, fail(ErrNoEffect, abilityId)
	}

	if d.CooldownTicks > 0 {
		if err := c.ledger.Start(ctx, player, abilityId, d.CooldownTicks); err != nil {
			return d, fmt.Errorf("starting cooldown: %w", err)
		}
	}

	return d, nil
}

func (c *Caster) execute(ctx context.Context, cc CastContext, d *Descriptor) bool {
	if !d.HoldToCast {
		return d.Execute(ctx, cc)
	}

	// Only one held ability per player: the old one goes idle before the new one acquires.
	c.holds.Stop(ctx, cc)
	targets := d.Hold.Acquire(ctx, cc)
	return c.holds.Begin(ctx, cc, d, targets)
}
