package spellsync

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/pixil98/go-spellbook/internal/spell"
)

const (
	DefaultCooldownInterval   = 20
	DefaultSlotResyncInterval = 100
)

// Transport delivers an encoded payload to one player. Delivery is best effort.
type Transport interface {
	SendToPlayer(player spell.PlayerId, data []byte) error
}

// Channel pushes authoritative slot and cooldown state to the player's mirror. It
// implements spell.Syncer. Send failures are logged and dropped; the next periodic
// snapshot corrects the mirror.
type Channel struct {
	transport Transport

	cooldownInterval   uint64
	slotResyncInterval uint64

	tick atomic.Uint64
}

type ChannelOpt func(*Channel)

// WithCooldownInterval sets how many ticks pass between cooldown snapshots. Zero disables them.
func WithCooldownInterval(ticks uint64) ChannelOpt {
	return func(c *Channel) {
		c.cooldownInterval = ticks
	}
}

// WithSlotResyncInterval sets how many ticks pass between full slot resyncs. Zero disables them.
func WithSlotResyncInterval(ticks uint64) ChannelOpt {
	return func(c *Channel) {
		c.slotResyncInterval = ticks
	}
}

func NewChannel(transport Transport, opts ...ChannelOpt) *Channel {
	c := &Channel{
		transport:          transport,
		cooldownInterval:   DefaultCooldownInterval,
		slotResyncInterval: DefaultSlotResyncInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Channel) SlotsChanged(ctx context.Context, player spell.PlayerId, slots spell.Slots) {
	c.send(ctx, NewSlotsMessage(player, c.tick.Load(), slots))
}

func (c *Channel) CooldownStarted(ctx context.Context, player spell.PlayerId, cds []spell.Cooldown) {
	c.send(ctx, NewCooldownsMessage(player, c.tick.Load(), cds))
}

// PlayerConnected seeds a fresh mirror without waiting for the next interval.
func (c *Channel) PlayerConnected(ctx context.Context, player spell.PlayerId, tick uint64, state spell.State) {
	c.tick.Store(tick)

	c.send(ctx, NewSlotsMessage(player, tick, state.Slots(player)))
	if cds := state.Cooldowns(player); len(cds) > 0 {
		c.send(ctx, NewCooldownsMessage(player, tick, cds))
	}
}

func (c *Channel) PlayerTicked(ctx context.Context, player spell.PlayerId, tick uint64, state spell.State) {
	c.tick.Store(tick)

	if c.cooldownInterval > 0 && tick%c.cooldownInterval == 0 {
		// An empty snapshot is never sent; the mirror has already counted down to it.
		if cds := state.Cooldowns(player); len(cds) > 0 {
			c.send(ctx, NewCooldownsMessage(player, tick, cds))
		}
	}

	if c.slotResyncInterval > 0 && tick%c.slotResyncInterval == 0 {
		c.send(ctx, NewSlotsMessage(player, tick, state.Slots(player)))
	}
}

func (c *Channel) send(ctx context.Context, m *Message) {
	data, err := Encode(m)
	if err != nil {
		slog.WarnContext(ctx, "encoding sync message", "player", m.Player, "type", m.Type, "error", err)
		return
	}

	if err := c.transport.SendToPlayer(m.Player, data); err != nil {
		slog.WarnContext(ctx, "sync push dropped", "player", m.Player, "type", m.Type, "error", err)
	}
}
