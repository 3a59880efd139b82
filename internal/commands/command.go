package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pixil98/go-spellbook/internal/spell"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString  InputType = "string"  // Single word, or the rest of the line when Rest is set
	InputTypeNumber  InputType = "number"  // Integer
	InputTypeSlot    InputType = "slot"    // Slot name or index
	InputTypeAbility InputType = "ability" // Ability id; "none" means empty
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string
	Type     InputType
	Required bool
	Rest     bool
}

// CommandFunc runs a command with its parsed inputs.
type CommandFunc func(ctx context.Context, cc *CommandContext, in Inputs) error

// Command is one line command the player can type.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Help    string
	Inputs  []InputSpec
	Run     CommandFunc
}

// View is the player's client-side copy of their spell state.
type View interface {
	Slots() spell.Slots
	Cooldowns() []spell.Cooldown
}

// CommandContext is the per-session state handed to every command.
type CommandContext struct {
	Player spell.PlayerId
	View   View
	Out    io.Writer
	Quit   bool
}

// Printf writes formatted output followed by a newline.
func (cc *CommandContext) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cc.Out, format+"\n", args...)
}

// Inputs holds parsed values by input name.
type Inputs map[string]any

func (in Inputs) String(name string) string {
	s, _ := in[name].(string)
	return s
}

func (in Inputs) Slot(name string) spell.Slot {
	s, _ := in[name].(spell.Slot)
	return s
}

func (in Inputs) Ability(name string) spell.AbilityId {
	a, _ := in[name].(spell.AbilityId)
	return a
}

// parseInputs validates raw arguments against the command's input specs.
func parseInputs(specs []InputSpec, rawArgs []string) (Inputs, error) {
	requiredCount := 0
	for _, spec := range specs {
		if spec.Required {
			requiredCount++
		}
	}

	if len(rawArgs) < requiredCount {
		return nil, NewUserError(fmt.Sprintf("Expected at least %d argument(s), got %d.", requiredCount, len(rawArgs)))
	}

	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(rawArgs) > len(specs) {
		return nil, NewUserError(fmt.Sprintf("Expected at most %d argument(s), got %d.", len(specs), len(rawArgs)))
	}

	in := make(Inputs, len(specs))
	argIndex := 0
	for _, spec := range specs {
		if argIndex >= len(rawArgs) {
			continue
		}

		var raw string
		if spec.Rest {
			raw = strings.Join(rawArgs[argIndex:], " ")
			argIndex = len(rawArgs)
		} else {
			raw = rawArgs[argIndex]
			argIndex++
		}

		value, err := parseValue(spec.Type, raw)
		if err != nil {
			return nil, err
		}
		in[spec.Name] = value
	}

	return in, nil
}

func parseValue(inputType InputType, raw string) (any, error) {
	switch inputType {
	case InputTypeString:
		return raw, nil

	case InputTypeNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, NewUserError(fmt.Sprintf("%q is not a valid number.", raw))
		}
		return n, nil

	case InputTypeSlot:
		s, err := spell.ParseSlot(raw)
		if err != nil {
			return nil, NewUserError(fmt.Sprintf("%q is not a slot. Use top, bottom, left or right.", raw))
		}
		return s, nil

	case InputTypeAbility:
		raw = strings.ToLower(raw)
		if raw == "none" || raw == "-" {
			return spell.AbilityId(""), nil
		}
		return spell.AbilityId(raw), nil

	default:
		return nil, fmt.Errorf("unknown input type %q", inputType)
	}
}
