package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner serves one player connection until it ends. name is a login name the
// transport already knows, or empty when the player must be asked.
type SessionRunner interface {
	RunNamedSession(ctx context.Context, conn io.ReadWriter, name string) error
}

// Peer describes where a connection came from.
type Peer struct {
	Protocol string
	Remote   string
	User     string
}

func (p Peer) logAttrs() []any {
	attrs := []any{"protocol", p.Protocol}
	if p.Remote != "" {
		attrs = append(attrs, "remote", p.Remote)
	}
	if p.User != "" {
		attrs = append(attrs, "user", p.User)
	}
	return attrs
}

// ConnectionManager hands every accepted connection to a spell session with line
// endings normalised.
type ConnectionManager struct {
	sessions SessionRunner
}

func NewConnectionManager(s SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sessions: s,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter, peer Peer) {
	attrs := peer.logAttrs()
	slog.DebugContext(ctx, "session started", attrs...)

	if err := m.sessions.RunNamedSession(ctx, newCRLFReadWriter(conn), peer.User); err != nil {
		slog.WarnContext(ctx, "player session", append(attrs, "error", err)...)
		return
	}
	slog.DebugContext(ctx, "session ended", attrs...)
}
