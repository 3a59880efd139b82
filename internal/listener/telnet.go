package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
)

// TelnetListener serves plain-text spell sessions. Players are asked for their name.
type TelnetListener struct {
	addr string
	cm   *ConnectionManager
}

func NewTelnetListener(addr string, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		addr: addr,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	sessions := newSessionGroup(ctx)
	svr := telnet.NewServer(l.addr, &telnetHandler{cm: l.cm, sessions: sessions})

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			sessions.close()
		case <-stopped:
		}
	}()

	slog.InfoContext(ctx, "listening for telnet", "addr", l.addr)
	if err := svr.ListenAndServe(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%s is already in use (another server running?)", l.addr)
		}
		return fmt.Errorf("serving telnet on %s: %w", l.addr, err)
	}
	return nil
}

type telnetHandler struct {
	cm       *ConnectionManager
	sessions *sessionGroup
}

func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	h.sessions.serve(func(ctx context.Context) {
		defer func() {
			if err := conn.Close(); err != nil {
				slog.WarnContext(ctx, "closing telnet connection", "error", err)
			}
		}()
		h.cm.AcceptConnection(ctx, conn, Peer{Protocol: "telnet"})
	})
}

// sessionGroup runs sessions on a context that outlives the accept loop until close,
// so shutdown can end every session and wait for their profiles to be saved.
type sessionGroup struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newSessionGroup(parent context.Context) *sessionGroup {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	return &sessionGroup{ctx: ctx, cancel: cancel}
}

// serve runs fn on the calling goroutine.
func (g *sessionGroup) serve(fn func(context.Context)) {
	g.wg.Add(1)
	defer g.wg.Done()
	fn(g.ctx)
}

// spawn runs fn on a new goroutine.
func (g *sessionGroup) spawn(fn func(context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn(g.ctx)
	}()
}

func (g *sessionGroup) close() {
	g.cancel()
	g.wg.Wait()
}
