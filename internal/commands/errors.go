package commands

import (
	"errors"
	"fmt"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// castRejections has one message per rejection reason, so the player can tell a
// cooldown from an empty slot from a failed precondition.
var castRejections = []struct {
	reason error
	tmpl   *display.Template
}{
	{spell.ErrInvalidSlot, display.MustParseTemplate("invalid-slot", "There is no such slot. Use top, bottom, left or right.")},
	{spell.ErrEmptySlot, display.MustParseTemplate("empty-slot", "Nothing is assigned to the {{ .Slot }} slot.")},
	{spell.ErrUnknownAbility, display.MustParseTemplate("unknown-ability", "The ability in the {{ .Slot }} slot no longer exists.")},
	{spell.ErrOnCooldown, display.MustParseTemplate("on-cooldown", "{{ .Name }} is not ready yet ({{ .Remaining }} {{ if eq .Remaining 1 }}tick{{ else }}ticks{{ end }} remaining).")},
	{spell.ErrPreconditionFailed, display.MustParseTemplate("precondition", "You cannot cast {{ .Name }} right now.")},
	{spell.ErrNoEffect, display.MustParseTemplate("no-effect", "{{ .Name }} fizzles.")},
}

type rejectionData struct {
	Slot      spell.Slot
	Name      string
	Remaining int
}

// castErrorMessage turns a cast rejection into a UserError. Other errors are returned as is.
func castErrorMessage(catalog *spell.Catalog, err error) error {
	var ce *spell.CastError
	if !errors.As(err, &ce) {
		return translate(err)
	}

	data := rejectionData{Slot: ce.Slot, Name: abilityName(catalog, ce.Ability), Remaining: ce.Remaining}

	for _, r := range castRejections {
		if errors.Is(ce, r.reason) {
			msg, rerr := r.tmpl.Render(data)
			if rerr != nil {
				return fmt.Errorf("rendering cast rejection: %w", rerr)
			}
			return NewUserError(msg)
		}
	}
	return err
}

// translate maps authority errors outside of casting to player-facing messages.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, spell.ErrInvalidSlot):
		return NewUserError("There is no such slot. Use top, bottom, left or right.")
	case errors.Is(err, spell.ErrUnknownAbility):
		return NewUserError("There is no such ability.")
	case errors.Is(err, spell.ErrNotLearned):
		return NewUserError("You have not learned that ability.")
	case errors.Is(err, spell.ErrNothingHeld):
		return NewUserError("You are not holding anything.")
	default:
		return err
	}
}
