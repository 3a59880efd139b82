package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pixil98/go-spellbook/internal/spell"
)

// Authority is the part of spell.Authority the commands drive.
type Authority interface {
	Catalog() *spell.Catalog
	Assign(ctx context.Context, player spell.PlayerId, slot spell.Slot, ability spell.AbilityId) error
	Cast(ctx context.Context, player spell.PlayerId, slot spell.Slot) (*spell.Descriptor, error)
	Release(ctx context.Context, player spell.PlayerId) error
	Holding(player spell.PlayerId) (spell.AbilityId, int, bool)
	Learn(ctx context.Context, player spell.PlayerId, ability spell.AbilityId) error
	Forget(ctx context.Context, player spell.PlayerId, ability spell.AbilityId) error
	Profile(player spell.PlayerId) (*spell.Profile, error)
}

type Handler struct {
	authority Authority
	commands  map[string]*Command
	names     []string
}

// NewHandler creates a handler with every built-in command registered.
func NewHandler(a Authority) *Handler {
	h := &Handler{
		authority: a,
		commands:  make(map[string]*Command),
	}
	for _, cmd := range h.builtins() {
		if err := h.Register(cmd); err != nil {
			panic(err)
		}
	}
	return h
}

// Register adds a command under its name and aliases.
func (h *Handler) Register(cmd *Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmd.Run == nil {
		return fmt.Errorf("command %q has no run function", cmd.Name)
	}

	keys := append([]string{cmd.Name}, cmd.Aliases...)
	for _, k := range keys {
		if _, exists := h.commands[k]; exists {
			return fmt.Errorf("command %q already registered", k)
		}
	}
	for _, k := range keys {
		h.commands[k] = cmd
	}

	h.names = append(h.names, cmd.Name)
	sort.Strings(h.names)
	return nil
}

// Exec parses and runs one line of input.
func (h *Handler) Exec(ctx context.Context, cc *CommandContext, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := h.commands[strings.ToLower(fields[0])]
	if !ok {
		return NewUserError(fmt.Sprintf("Unknown command: %s", fields[0]))
	}

	in, err := parseInputs(cmd.Inputs, fields[1:])
	if err != nil {
		return err
	}

	return cmd.Run(ctx, cc, in)
}
