package spell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Syncer receives every authoritative change that a remote mirror must learn about.
type Syncer interface {
	SlotListener
	CooldownListener
	PlayerConnected(ctx context.Context, player PlayerId, tick uint64, state State)
	PlayerTicked(ctx context.Context, player PlayerId, tick uint64, state State)
}

// Authority is the single owner of slot, cooldown and hold state for all connected players.
// Every entry point takes the same lock, so all mutations of one player are ordered before
// the next tick's decrement for that player.
type Authority struct {
	mu sync.Mutex

	catalog *Catalog
	slots   *SlotStore
	ledger  *Ledger
	holds   *HoldController
	caster  *Caster
	syncer  Syncer

	profiles       map[PlayerId]*Profile
	clocks         map[PlayerId]uint64
	tick           uint64
	requireLearned bool
}

type AuthorityOpt func(*Authority)

// WithRequireLearned only allows learned abilities to be slotted.
func WithRequireLearned(b bool) AuthorityOpt {
	return func(a *Authority) {
		a.requireLearned = b
	}
}

func NewAuthority(catalog *Catalog, syncer Syncer, opts ...AuthorityOpt) *Authority {
	if syncer == nil {
		syncer = nopSyncer{}
	}

	a := &Authority{
		catalog:  catalog,
		syncer:   syncer,
		slots:    NewSlotStore(syncer),
		ledger:   NewLedger(syncer),
		holds:    NewHoldController(),
		profiles: make(map[PlayerId]*Profile),
		clocks:   make(map[PlayerId]uint64),
	}
	a.caster = NewCaster(a.catalog, a.slots, a.ledger, a.holds)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Catalog returns the read-only ability catalog.
func (a *Authority) Catalog() *Catalog {
	return a.catalog
}

// Connect registers the player and loads their persisted profile. Slots that point at
// abilities which no longer exist (or are not learned, when required) are dropped.
func (a *Authority) Connect(ctx context.Context, player PlayerId, profile *Profile) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.profiles[player]; exists {
		return ErrPlayerExists
	}
	if profile == nil {
		profile = NewProfile()
	} else {
		profile = profile.Clone()
	}

	var slots Slots
	for i, id := range profile.Slots {
		if id == "" {
			continue
		}
		if _, ok := a.catalog.Get(id); !ok {
			slog.WarnContext(ctx, "dropping unknown ability from slot", "player", player, "slot", Slot(i), "ability", id)
			continue
		}
		if a.requireLearned && !profile.Knows(id) {
			continue
		}
		slots[i] = id
	}

	a.profiles[player] = profile
	a.clocks[player] = a.tick
	a.slots.Load(player, slots)
	a.syncer.PlayerConnected(ctx, player, a.tick, a.state())

	slog.InfoContext(ctx, "player connected", "player", player)
	return nil
}

// Disconnect tears down every piece of per-player state in one step and returns the
// profile to persist.
func (a *Authority) Disconnect(ctx context.Context, player PlayerId) (*Profile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	profile, ok := a.profiles[player]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	profile.Slots = a.slots.Snapshot(player)

	a.holds.Stop(ctx, CastContext{Player: player, Tick: a.clocks[player]})
	a.slots.Clear(player)
	a.ledger.Clear(player)
	delete(a.profiles, player)
	delete(a.clocks, player)

	slog.InfoContext(ctx, "player disconnected", "player", player)
	return profile, nil
}

// Assign puts ability in slot. The empty ability clears the slot.
func (a *Authority) Assign(ctx context.Context, player PlayerId, slot Slot, ability AbilityId) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	profile, ok := a.profiles[player]
	if !ok {
		return ErrPlayerNotFound
	}
	if !slot.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}

	if ability != "" {
		if _, ok := a.catalog.Get(ability); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAbility, ability)
		}
		if a.requireLearned && !profile.Knows(ability) {
			return fmt.Errorf("%w: %q", ErrNotLearned, ability)
		}
	}

	_, err := a.slots.Assign(ctx, player, slot, ability)
	return err
}

// Slot returns what the player has in slot.
func (a *Authority) Slot(player PlayerId, slot Slot) (AbilityId, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.slots.Get(player, slot)
}

// Cast casts the ability in slot. Rejections are returned as *CastError.
func (a *Authority) Cast(ctx context.Context, player PlayerId, slot Slot) (*Descriptor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	profile, ok := a.profiles[player]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	d, err := a.caster.Cast(ctx, player, slot, a.clocks[player])
	if err != nil {
		var ce *CastError
		if errors.As(err, &ce) {
			slog.DebugContext(ctx, "cast rejected", "player", player, "slot", slot, "ability", ce.Ability, "reason", ce.Reason)
			return nil, err
		}
		return d, err
	}

	profile.RecordCast(d.Id)
	slog.DebugContext(ctx, "cast", "player", player, "slot", slot, "ability", d.Id, "tick", a.clocks[player])
	return d, nil
}

// Release discharges the player's held ability.
func (a *Authority) Release(ctx context.Context, player PlayerId) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.profiles[player]; !ok {
		return ErrPlayerNotFound
	}
	return a.holds.Release(ctx, CastContext{Player: player, Tick: a.clocks[player]})
}

// Holding returns the ability the player is channelling and how many targets it holds.
func (a *Authority) Holding(player PlayerId) (AbilityId, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.holds.Active(player)
	if !ok {
		return "", 0, false
	}
	return s.Ability.Id, len(s.targets), true
}

// Learn adds ability to the player's learned set.
func (a *Authority) Learn(ctx context.Context, player PlayerId, ability AbilityId) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	profile, ok := a.profiles[player]
	if !ok {
		return ErrPlayerNotFound
	}
	if _, ok := a.catalog.Get(ability); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAbility, ability)
	}

	profile.Learn(ability)
	return nil
}

// Forget removes ability from the player's learned set. When learning is required the
// ability is also cleared from every slot holding it.
func (a *Authority) Forget(ctx context.Context, player PlayerId, ability AbilityId) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	profile, ok := a.profiles[player]
	if !ok {
		return ErrPlayerNotFound
	}
	if !profile.Forget(ability) {
		return fmt.Errorf("%w: %q", ErrNotLearned, ability)
	}

	if a.requireLearned {
		slots := a.slots.Snapshot(player)
		for i, id := range slots {
			if id == ability {
				if _, err := a.slots.Assign(ctx, player, Slot(i), ""); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Profile returns a copy of the player's profile with the current slots.
func (a *Authority) Profile(player PlayerId) (*Profile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	profile, ok := a.profiles[player]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	cp := profile.Clone()
	cp.Slots = a.slots.Snapshot(player)
	return cp, nil
}

// IsReady reports whether the player's ability is off cooldown.
func (a *Authority) IsReady(player PlayerId, ability AbilityId) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ledger.IsReady(player, ability)
}

// Remaining returns the cooldown ticks left on the player's ability.
func (a *Authority) Remaining(player PlayerId, ability AbilityId) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ledger.Remaining(player, ability)
}

// Players returns the connected players in sorted order.
func (a *Authority) Players() []PlayerId {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.players()
}

// CurrentTick returns the highest tick any player has reached.
func (a *Authority) CurrentTick() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.tick
}

// OnTick advances one player's clock by one tick: cooldowns, then the held ability,
// then sync. Unknown players are ignored.
func (a *Authority) OnTick(ctx context.Context, player PlayerId) {
	a.mu.Lock()
	defer a.mu.Unlock()

	clock, ok := a.clocks[player]
	if !ok {
		return
	}
	clock++
	if clock > a.tick {
		a.tick = clock
	}
	a.onTick(ctx, player, clock)
}

// Tick advances the shared clock and every connected player to it.
func (a *Authority) Tick(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tick++
	for _, player := range a.players() {
		a.onTick(ctx, player, a.tick)
	}
	return nil
}

func (a *Authority) onTick(ctx context.Context, player PlayerId, tick uint64) {
	a.clocks[player] = tick

	a.ledger.Tick(player)
	a.holds.Advance(ctx, CastContext{Player: player, Tick: tick})
	a.syncer.PlayerTicked(ctx, player, tick, a.state())
}

func (a *Authority) players() []PlayerId {
	ids := make([]PlayerId, 0, len(a.profiles))
	for id := range a.profiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (a *Authority) state() State {
	return stateView{slots: a.slots, ledger: a.ledger}
}

type stateView struct {
	slots  *SlotStore
	ledger *Ledger
}

func (v stateView) Slots(player PlayerId) Slots {
	return v.slots.Snapshot(player)
}

func (v stateView) Cooldowns(player PlayerId) []Cooldown {
	return v.ledger.Snapshot(player)
}

type nopSyncer struct{}

func (nopSyncer) SlotsChanged(context.Context, PlayerId, Slots)            {}
func (nopSyncer) CooldownStarted(context.Context, PlayerId, []Cooldown)    {}
func (nopSyncer) PlayerConnected(context.Context, PlayerId, uint64, State) {}
func (nopSyncer) PlayerTicked(context.Context, PlayerId, uint64, State)    {}
