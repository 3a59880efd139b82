package effects

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
)

const EffectChannel = "channel"

type channelConfig struct {
	Targets     int    `json:"targets"`
	Lifetime    int    `json:"lifetime"`
	Stagger     int    `json:"stagger"`
	StartText   string `json:"start_text"`
	ReleaseText string `json:"release_text"`
}

func (c *channelConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Targets < 0 {
		el.Add(fmt.Errorf("targets must not be negative"))
	}
	if c.Lifetime < 1 {
		el.Add(fmt.Errorf("lifetime must be at least 1"))
	}
	if c.Stagger < 0 {
		el.Add(fmt.Errorf("stagger must not be negative"))
	}

	return el.Err()
}

// channelEffect holds a set of targets, each kept alive for a number of ticks.
type channelEffect struct {
	id        spell.AbilityId
	name      string
	cfg       channelConfig
	messenger Messenger
	start     *display.Template
	release   *display.Template

	mu   sync.Mutex
	held map[spell.PlayerId]map[spell.Target]int
}

// NewChannelFactory builds hold-to-cast abilities. Target i lives lifetime + i*stagger ticks.
func NewChannelFactory(m Messenger) Factory {
	return FactoryFunc(func(id spell.AbilityId, spec *AbilitySpec) (*spell.Descriptor, error) {
		if !spec.HoldToCast {
			return nil, fmt.Errorf("channel effect must be hold_to_cast")
		}

		cfg := channelConfig{Targets: 1, Lifetime: 1}
		if err := spec.decodeConfig(&cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		e := &channelEffect{
			id:        id,
			name:      abilityName(spec.Name, id),
			cfg:       cfg,
			messenger: m,
			held:      make(map[spell.PlayerId]map[spell.Target]int),
		}
		var err error
		if cfg.StartText != "" {
			if e.start, err = display.ParseTemplate(string(id)+"-start", cfg.StartText); err != nil {
				return nil, err
			}
		}
		if cfg.ReleaseText != "" {
			if e.release, err = display.ParseTemplate(string(id)+"-release", cfg.ReleaseText); err != nil {
				return nil, err
			}
		}

		return &spell.Descriptor{
			Id:            id,
			Name:          spec.Name,
			CooldownTicks: spec.CooldownTicks,
			HoldToCast:    true,
			CanCast:       e.canCast,
			Hold: &spell.HoldBehavior{
				Acquire:  e.acquire,
				Continue: e.continueHold,
				Release:  e.releaseHold,
				End:      e.end,
			},
		}, nil
	})
}

func (e *channelEffect) canCast(context.Context, spell.CastContext) bool {
	return e.cfg.Targets > 0
}

func (e *channelEffect) acquire(ctx context.Context, cc spell.CastContext) []spell.Target {
	e.mu.Lock()
	lives := make(map[spell.Target]int, e.cfg.Targets)
	targets := make([]spell.Target, 0, e.cfg.Targets)
	for i := range e.cfg.Targets {
		t := spell.Target(uuid.NewString())
		lives[t] = e.cfg.Lifetime + i*e.cfg.Stagger
		targets = append(targets, t)
	}
	e.held[cc.Player] = lives
	e.mu.Unlock()

	e.say(ctx, cc, e.start, len(targets))
	return targets
}

func (e *channelEffect) continueHold(_ context.Context, cc spell.CastContext, targets []spell.Target) []spell.Target {
	e.mu.Lock()
	defer e.mu.Unlock()

	lives := e.held[cc.Player]
	var kept []spell.Target
	for _, t := range targets {
		left, ok := lives[t]
		if !ok {
			continue
		}
		if left <= 1 {
			delete(lives, t)
			continue
		}
		lives[t] = left - 1
		kept = append(kept, t)
	}
	return kept
}

func (e *channelEffect) releaseHold(ctx context.Context, cc spell.CastContext, targets []spell.Target) {
	e.say(ctx, cc, e.release, len(targets))
}

func (e *channelEffect) end(_ context.Context, cc spell.CastContext) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.held, cc.Player)
}

func (e *channelEffect) say(ctx context.Context, cc spell.CastContext, tmpl *display.Template, count int) {
	if tmpl == nil {
		return
	}
	text, err := tmpl.Render(castData{Player: cc.Player, Ability: e.name, Tick: cc.Tick, Count: count})
	if err != nil {
		slog.WarnContext(ctx, "rendering ability text", "ability", e.id, "error", err)
		return
	}
	if err := e.messenger.Message(cc.Player, text); err != nil {
		slog.WarnContext(ctx, "sending ability text", "ability", e.id, "player", cc.Player, "error", err)
	}
}
