package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
)

var (
	assignTmpl  = display.MustParseTemplate("assign", "{{ .Name }} is now in the {{ .Slot }} slot.")
	clearTmpl   = display.MustParseTemplate("clear", "The {{ .Slot }} slot is now empty.")
	castTmpl    = display.MustParseTemplate("cast", "You cast {{ .Name }}.")
	holdTmpl    = display.MustParseTemplate("hold", "You begin channelling {{ .Name }}, holding {{ .Targets }} {{ if eq .Targets 1 }}target{{ else }}targets{{ end }}.")
	releaseTmpl = display.MustParseTemplate("release", "You release {{ .Name }}.")
	learnTmpl   = display.MustParseTemplate("learn", "You learn {{ .Name }}.")
	forgetTmpl  = display.MustParseTemplate("forget", "You forget {{ .Name }}.")
)

type feedback struct {
	Slot    spell.Slot
	Name    string
	Targets int
}

func (h *Handler) builtins() []*Command {
	return []*Command{
		{
			Name:  "assign",
			Usage: "assign <slot> <ability|none>",
			Help:  "Put an ability in a slot, or clear it.",
			Inputs: []InputSpec{
				{Name: "slot", Type: InputTypeSlot, Required: true},
				{Name: "ability", Type: InputTypeAbility, Required: true},
			},
			Run: h.assign,
		},
		{
			Name:    "cast",
			Aliases: []string{"c"},
			Usage:   "cast <slot>",
			Help:    "Cast the ability in a slot.",
			Inputs:  []InputSpec{{Name: "slot", Type: InputTypeSlot, Required: true}},
			Run:     h.cast,
		},
		{
			Name:  "release",
			Usage: "release",
			Help:  "Let go of the ability you are channelling.",
			Run:   h.release,
		},
		{
			Name:   "learn",
			Usage:  "learn <ability>",
			Help:   "Learn an ability.",
			Inputs: []InputSpec{{Name: "ability", Type: InputTypeAbility, Required: true}},
			Run:    h.learn,
		},
		{
			Name:   "forget",
			Usage:  "forget <ability>",
			Help:   "Forget a learned ability.",
			Inputs: []InputSpec{{Name: "ability", Type: InputTypeAbility, Required: true}},
			Run:    h.forget,
		},
		{
			Name:  "slots",
			Usage: "slots",
			Help:  "Show your slots and their cooldowns.",
			Run:   h.slots,
		},
		{
			Name:    "cooldowns",
			Aliases: []string{"cd"},
			Usage:   "cooldowns",
			Help:    "Show abilities that are not ready.",
			Run:     h.cooldowns,
		},
		{
			Name:  "spells",
			Usage: "spells",
			Help:  "List every ability and what you know.",
			Run:   h.spells,
		},
		{
			Name:    "help",
			Aliases: []string{"?"},
			Usage:   "help",
			Help:    "List commands.",
			Run:     h.help,
		},
		{
			Name:  "quit",
			Usage: "quit",
			Help:  "Save and leave.",
			Run: func(_ context.Context, cc *CommandContext, _ Inputs) error {
				cc.Quit = true
				return nil
			},
		},
	}
}

func (h *Handler) name(id spell.AbilityId) string {
	return abilityName(h.authority.Catalog(), id)
}

// abilityName prefers the configured name and falls back to a title-cased id.
func abilityName(catalog *spell.Catalog, id spell.AbilityId) string {
	if d, ok := catalog.Get(id); ok && d.Name != "" {
		return d.Name
	}
	return display.Title(string(id))
}

func (h *Handler) say(cc *CommandContext, tmpl *display.Template, data feedback) error {
	text, err := tmpl.Render(data)
	if err != nil {
		return fmt.Errorf("rendering feedback: %w", err)
	}
	cc.Printf("%s", text)
	return nil
}

func (h *Handler) assign(ctx context.Context, cc *CommandContext, in Inputs) error {
	slot, ability := in.Slot("slot"), in.Ability("ability")

	if err := h.authority.Assign(ctx, cc.Player, slot, ability); err != nil {
		return translate(err)
	}

	if ability == "" {
		return h.say(cc, clearTmpl, feedback{Slot: slot})
	}
	return h.say(cc, assignTmpl, feedback{Slot: slot, Name: h.name(ability)})
}

func (h *Handler) cast(ctx context.Context, cc *CommandContext, in Inputs) error {
	d, err := h.authority.Cast(ctx, cc.Player, in.Slot("slot"))
	if err != nil {
		return castErrorMessage(h.authority.Catalog(), err)
	}

	if d.HoldToCast {
		_, targets, _ := h.authority.Holding(cc.Player)
		return h.say(cc, holdTmpl, feedback{Name: h.name(d.Id), Targets: targets})
	}
	return h.say(cc, castTmpl, feedback{Name: h.name(d.Id)})
}

func (h *Handler) release(ctx context.Context, cc *CommandContext, _ Inputs) error {
	held, _, _ := h.authority.Holding(cc.Player)
	if err := h.authority.Release(ctx, cc.Player); err != nil {
		return translate(err)
	}
	return h.say(cc, releaseTmpl, feedback{Name: h.name(held)})
}

func (h *Handler) learn(ctx context.Context, cc *CommandContext, in Inputs) error {
	ability := in.Ability("ability")
	if err := h.authority.Learn(ctx, cc.Player, ability); err != nil {
		return translate(err)
	}
	return h.say(cc, learnTmpl, feedback{Name: h.name(ability)})
}

func (h *Handler) forget(ctx context.Context, cc *CommandContext, in Inputs) error {
	ability := in.Ability("ability")
	if err := h.authority.Forget(ctx, cc.Player, ability); err != nil {
		return translate(err)
	}
	return h.say(cc, forgetTmpl, feedback{Name: h.name(ability)})
}
