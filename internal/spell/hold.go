package spell

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// HoldSession is the single hold-to-cast ability a player is channelling.
type HoldSession struct {
	Id        uuid.UUID
	Ability   *Descriptor
	StartedAt uint64

	targets []Target
}

// Targets returns a copy of the targets currently held.
func (s *HoldSession) Targets() []Target {
	return append([]Target(nil), s.targets...)
}

// HoldController tracks at most one active HoldSession per player.
// A player with no session is idle.
type HoldController struct {
	sessions map[PlayerId]*HoldSession
}

func NewHoldController() *HoldController {
	return &HoldController{
		sessions: make(map[PlayerId]*HoldSession),
	}
}

// Active returns the player's session, if any.
func (h *HoldController) Active(player PlayerId) (*HoldSession, bool) {
	s, ok := h.sessions[player]
	return s, ok
}

// Begin makes d the player's active session. Any existing session is ended first.
// Begin does nothing when targets is empty.
func (h *HoldController) Begin(ctx context.Context, cc CastContext, d *Descriptor, targets []Target) bool {
	h.Stop(ctx, cc)

	targets = uniqueTargets(targets)
	if len(targets) == 0 {
		return false
	}

	s := &HoldSession{
		Id:        uuid.New(),
		Ability:   d,
		StartedAt: cc.Tick,
		targets:   targets,
	}
	h.sessions[cc.Player] = s

	slog.DebugContext(ctx, "hold session started",
		"player", cc.Player, "ability", d.Id, "session", s.Id, "targets", len(targets))
	return true
}

// Advance runs the continuation of the player's session and ends it once no targets remain.
func (h *HoldController) Advance(ctx context.Context, cc CastContext) {
	s, ok := h.sessions[cc.Player]
	if !ok {
		return
	}

	cc.Ability = s.Ability.Id
	s.targets = uniqueTargets(s.Ability.Hold.Continue(ctx, cc, s.Targets()))
	if len(s.targets) == 0 {
		h.end(ctx, cc, s)
	}
}

// Release discharges the held targets into the ability's final effect and ends the session.
func (h *HoldController) Release(ctx context.Context, cc CastContext) error {
	s, ok := h.sessions[cc.Player]
	if !ok {
		return ErrNothingHeld
	}

	cc.Ability = s.Ability.Id
	if s.Ability.Hold.Release != nil {
		s.Ability.Hold.Release(ctx, cc, s.Targets())
	}
	h.end(ctx, cc, s)
	return nil
}

// Stop ends the player's session without a final effect. It reports whether one was active.
func (h *HoldController) Stop(ctx context.Context, cc CastContext) bool {
	s, ok := h.sessions[cc.Player]
	if !ok {
		return false
	}
	h.end(ctx, cc, s)
	return true
}

// Len returns the number of active sessions.
func (h *HoldController) Len() int {
	return len(h.sessions)
}

func (h *HoldController) end(ctx context.Context, cc CastContext, s *HoldSession) {
	delete(h.sessions, cc.Player)

	cc.Ability = s.Ability.Id
	if s.Ability.Hold.End != nil {
		s.Ability.Hold.End(ctx, cc)
	}

	slog.DebugContext(ctx, "hold session ended",
		"player", cc.Player, "ability", s.Ability.Id, "session", s.Id, "ticks", cc.Tick-s.StartedAt)
}

func uniqueTargets(targets []Target) []Target {
	if len(targets) == 0 {
		return nil
	}
	seen := make(map[Target]struct{}, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
