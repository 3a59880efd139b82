package spell

import (
	"context"
	"fmt"
)

// recordingSyncer captures every notification sent by the authority.
type recordingSyncer struct {
	slotPushes     []Slots
	cooldownPushes [][]Cooldown
	connected      []PlayerId
	ticks          []uint64
}

func (r *recordingSyncer) SlotsChanged(_ context.Context, _ PlayerId, slots Slots) {
	r.slotPushes = append(r.slotPushes, slots)
}

func (r *recordingSyncer) CooldownStarted(_ context.Context, _ PlayerId, cds []Cooldown) {
	r.cooldownPushes = append(r.cooldownPushes, cds)
}

func (r *recordingSyncer) PlayerConnected(_ context.Context, player PlayerId, _ uint64, _ State) {
	r.connected = append(r.connected, player)
}

func (r *recordingSyncer) PlayerTicked(_ context.Context, _ PlayerId, tick uint64, _ State) {
	r.ticks = append(r.ticks, tick)
}

// instantAbility is an instant ability that counts its executions.
type instantAbility struct {
	result  bool
	allowed bool
	calls   int
}

func newInstant(id AbilityId, cooldown int) (*Descriptor, *instantAbility) {
	ia := &instantAbility{result: true, allowed: true}
	d := &Descriptor{
		Id:            id,
		CooldownTicks: cooldown,
		CanCast: func(context.Context, CastContext) bool {
			return ia.allowed
		},
		Execute: func(context.Context, CastContext) bool {
			ia.calls++
			return ia.result
		},
	}
	return d, ia
}

// shrinkingHold acquires a fixed number of targets and drops one every tick.
type shrinkingHold struct {
	acquire  int
	released []Target
	ended    int
}

func newShrinkingHold(id AbilityId, cooldown, targets int) (*Descriptor, *shrinkingHold) {
	sh := &shrinkingHold{acquire: targets}
	d := &Descriptor{
		Id:            id,
		CooldownTicks: cooldown,
		HoldToCast:    true,
		Hold: &HoldBehavior{
			Acquire: func(_ context.Context, cc CastContext) []Target {
				var ts []Target
				for i := range sh.acquire {
					ts = append(ts, Target(fmt.Sprintf("%s-%d", cc.Player, i)))
				}
				return ts
			},
			Continue: func(_ context.Context, _ CastContext, targets []Target) []Target {
				if len(targets) == 0 {
					return nil
				}
				return targets[1:]
			},
			Release: func(_ context.Context, _ CastContext, targets []Target) {
				sh.released = append(sh.released, targets...)
			},
			End: func(context.Context, CastContext) {
				sh.ended++
			},
		},
	}
	return d, sh
}

func mustRegister(c *Catalog, ds ...*Descriptor) {
	for _, d := range ds {
		if err := c.Register(d); err != nil {
			panic(err)
		}
	}
}
