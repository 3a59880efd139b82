package spell

import (
	"context"
	"fmt"

	"github.com/pixil98/go-errors"
)

// CastContext is handed to every ability function.
type CastContext struct {
	Player  PlayerId
	Ability AbilityId
	Tick    uint64
}

// Target is an opaque handle to something a held ability is acting on.
type Target string

// HoldBehavior is the continuous part of a hold-to-cast ability.
type HoldBehavior struct {
	// Acquire is the initial cast. The session becomes active only if it returns at least one target.
	Acquire func(ctx context.Context, cc CastContext) []Target
	// Continue runs once per tick while the session is active and returns the targets still held.
	Continue func(ctx context.Context, cc CastContext, targets []Target) []Target
	// Release converts the held targets into a final effect. Optional.
	Release func(ctx context.Context, cc CastContext, targets []Target)
	// End runs whenever the session goes idle, for any reason. Optional.
	End func(ctx context.Context, cc CastContext)
}

// Descriptor is the static definition of an ability. It is immutable once registered.
type Descriptor struct {
	Id            AbilityId
	Name          string
	CooldownTicks int
	HoldToCast    bool

	// CanCast is an external precondition. Nil means always castable.
	CanCast func(ctx context.Context, cc CastContext) bool
	// Execute runs an instant ability. False means the cast had no effect.
	Execute func(ctx context.Context, cc CastContext) bool
	// Hold is required when HoldToCast is set.
	Hold *HoldBehavior
}

// DisplayName returns Name, falling back to the id.
func (d *Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return string(d.Id)
}

func (d *Descriptor) Validate() error {
	el := errors.NewErrorList()

	if d.Id == "" {
		el.Add(fmt.Errorf("id must be set"))
	}
	if d.CooldownTicks < 0 {
		el.Add(fmt.Errorf("cooldown_ticks must not be negative"))
	}

	if d.HoldToCast {
		if d.Hold == nil || d.Hold.Acquire == nil || d.Hold.Continue == nil {
			el.Add(fmt.Errorf("hold-to-cast ability needs acquire and continue functions"))
		}
		if d.Execute != nil {
			el.Add(fmt.Errorf("hold-to-cast ability must not define execute"))
		}
	} else {
		if d.Execute == nil {
			el.Add(fmt.Errorf("execute function is required"))
		}
		if d.Hold != nil {
			el.Add(fmt.Errorf("instant ability must not define hold behavior"))
		}
	}

	return el.Err()
}

func (d *Descriptor) canCast(ctx context.Context, cc CastContext) bool {
	if d.CanCast == nil {
		return true
	}
	return d.CanCast(ctx, cc)
}
