package spell

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSlot           = errors.New("invalid slot")
	ErrEmptySlot             = errors.New("slot empty")
	ErrUnknownAbility        = errors.New("unknown ability")
	ErrOnCooldown            = errors.New("on cooldown")
	ErrPreconditionFailed    = errors.New("precondition not met")
	ErrNoEffect              = errors.New("no effect")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrNotLearned            = errors.New("ability not learned")
	ErrNothingHeld           = errors.New("nothing held")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerExists          = errors.New("player already exists")
)

// CastError reports why a cast was rejected. Reason is one of the sentinel errors above
// and is matched with errors.Is.
type CastError struct {
	Reason    error
	Player    PlayerId
	Slot      Slot
	Ability   AbilityId
	Remaining int
}

func (e *CastError) Error() string {
	switch {
	case e.Ability == "":
		return fmt.Sprintf("casting %s for %s: %s", e.Slot, e.Player, e.Reason)
	case errors.Is(e.Reason, ErrOnCooldown):
		return fmt.Sprintf("casting %s for %s: %s (%d ticks)", e.Ability, e.Player, e.Reason, e.Remaining)
	default:
		return fmt.Sprintf("casting %s for %s: %s", e.Ability, e.Player, e.Reason)
	}
}

func (e *CastError) Unwrap() error {
	return e.Reason
}
