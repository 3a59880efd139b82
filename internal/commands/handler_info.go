package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
)

var slotsTmpl = display.MustParseTemplate("slots", `{{- range . -}}
{{ printf "%-7s" .Slot }} {{ if .Name }}{{ printf "%-20s" .Name }} {{ if gt .Remaining 0 }}{{ .Remaining }} ticks{{ else }}ready{{ end }}{{ else }}(empty){{ end }}
{{ end -}}`)

var spellsTmpl = display.MustParseTemplate("spells", `{{- range . -}}
{{ if .Learned }}*{{ else }} {{ end }} {{ printf "%-20s" .Name }} {{ printf "%-16s" .Id }} cooldown {{ .Cooldown }}{{ if .Hold }}, held{{ end }}{{ if .Mastery }}, cast {{ .Mastery }}x{{ end }}
{{ end -}}`)

type slotLine struct {
	Slot      spell.Slot
	Name      string
	Remaining int
}

type spellLine struct {
	Id       spell.AbilityId
	Name     string
	Cooldown int
	Hold     bool
	Learned  bool
	Mastery  int
}

func remainingByAbility(v View) map[spell.AbilityId]int {
	out := make(map[spell.AbilityId]int)
	for _, cd := range v.Cooldowns() {
		out[cd.Ability] = cd.Remaining
	}
	return out
}

func (h *Handler) render(cc *CommandContext, tmpl *display.Template, data any) error {
	text, err := tmpl.Render(data)
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	_, err = cc.Out.Write([]byte(text))
	return err
}

// slots shows the mirrored view, the same state a remote client would render.
func (h *Handler) slots(_ context.Context, cc *CommandContext, _ Inputs) error {
	remaining := remainingByAbility(cc.View)

	var lines []slotLine
	for i, id := range cc.View.Slots() {
		line := slotLine{Slot: spell.Slot(i)}
		if id != "" {
			line.Name = h.name(id)
			line.Remaining = remaining[id]
		}
		lines = append(lines, line)
	}
	if err := h.render(cc, slotsTmpl, lines); err != nil {
		return err
	}

	if held, targets, ok := h.authority.Holding(cc.Player); ok {
		cc.Printf("Channelling %s (%d held).", h.name(held), targets)
	}
	return nil
}

func (h *Handler) cooldowns(_ context.Context, cc *CommandContext, _ Inputs) error {
	cds := cc.View.Cooldowns()
	if len(cds) == 0 {
		cc.Printf("All abilities are ready.")
		return nil
	}
	for _, cd := range cds {
		cc.Printf("%-20s %d ticks", h.name(cd.Ability), cd.Remaining)
	}
	return nil
}

func (h *Handler) spells(_ context.Context, cc *CommandContext, _ Inputs) error {
	profile, err := h.authority.Profile(cc.Player)
	if err != nil {
		return err
	}

	catalog := h.authority.Catalog()
	var lines []spellLine
	for _, id := range catalog.Ids() {
		d, _ := catalog.Get(id)
		lines = append(lines, spellLine{
			Id:       id,
			Name:     h.name(id),
			Cooldown: d.CooldownTicks,
			Hold:     d.HoldToCast,
			Learned:  profile.Knows(id),
			Mastery:  profile.Mastery[id],
		})
	}
	if len(lines) == 0 {
		cc.Printf("There are no abilities.")
		return nil
	}
	return h.render(cc, spellsTmpl, lines)
}

func (h *Handler) help(_ context.Context, cc *CommandContext, _ Inputs) error {
	var b strings.Builder
	for _, name := range h.names {
		cmd := h.commands[name]
		fmt.Fprintf(&b, "%-32s %s\n", cmd.Usage, cmd.Help)
	}
	_, err := cc.Out.Write([]byte(display.Wrap(b.String())))
	return err
}
