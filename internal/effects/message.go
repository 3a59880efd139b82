package effects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
)

const EffectMessage = "message"

type messageConfig struct {
	Text string `json:"text"`
}

// castData is what effect templates can reference.
type castData struct {
	Player  spell.PlayerId
	Ability string
	Tick    uint64
	Count   int
}

// NewMessageFactory builds instant abilities that send templated text to the caster.
func NewMessageFactory(m Messenger) Factory {
	return FactoryFunc(func(id spell.AbilityId, spec *AbilitySpec) (*spell.Descriptor, error) {
		if spec.HoldToCast {
			return nil, fmt.Errorf("message effect cannot be held")
		}

		var cfg messageConfig
		if err := spec.decodeConfig(&cfg); err != nil {
			return nil, err
		}
		if cfg.Text == "" {
			return nil, fmt.Errorf("message effect needs text")
		}
		tmpl, err := display.ParseTemplate(string(id), cfg.Text)
		if err != nil {
			return nil, err
		}

		name := spec.Name
		return &spell.Descriptor{
			Id:            id,
			Name:          name,
			CooldownTicks: spec.CooldownTicks,
			Execute: func(ctx context.Context, cc spell.CastContext) bool {
				text, err := tmpl.Render(castData{Player: cc.Player, Ability: abilityName(name, id), Tick: cc.Tick})
				if err != nil {
					slog.WarnContext(ctx, "rendering ability text", "ability", id, "error", err)
					return false
				}
				if err := m.Message(cc.Player, text); err != nil {
					slog.WarnContext(ctx, "sending ability text", "ability", id, "player", cc.Player, "error", err)
					return false
				}
				return true
			},
		}, nil
	})
}

func abilityName(name string, id spell.AbilityId) string {
	if name != "" {
		return name
	}
	return display.Title(string(id))
}
