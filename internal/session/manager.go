package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pixil98/go-spellbook/internal/commands"
	"github.com/pixil98/go-spellbook/internal/messaging"
	"github.com/pixil98/go-spellbook/internal/spell"
	"github.com/pixil98/go-spellbook/internal/spellsync"
	"github.com/pixil98/go-spellbook/internal/storage"
)

const (
	minNameLength = 3
	maxNameLength = 20
)

// Authority is everything a session needs from spell.Authority.
type Authority interface {
	commands.Authority
	Connect(ctx context.Context, player spell.PlayerId, profile *spell.Profile) error
	Disconnect(ctx context.Context, player spell.PlayerId) (*spell.Profile, error)
}

type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

type ProfileStore interface {
	Get(id string) (*spell.Profile, bool)
	Save(id string, p *spell.Profile) error
}

// Manager runs one session per accepted connection.
type Manager struct {
	authority  Authority
	handler    *commands.Handler
	subscriber Subscriber
	profiles   ProfileStore

	startingSpells []spell.AbilityId
	tickLength     time.Duration
}

type ManagerOpt func(*Manager)

// WithStartingSpells sets the abilities a brand new profile knows.
func WithStartingSpells(ids ...spell.AbilityId) ManagerOpt {
	return func(m *Manager) {
		m.startingSpells = ids
	}
}

// WithTickLength sets how often the session's mirror counts down locally.
func WithTickLength(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.tickLength = d
	}
}

func NewManager(a Authority, sub Subscriber, profiles ProfileStore, opts ...ManagerOpt) *Manager {
	m := &Manager{
		authority:  a,
		handler:    commands.NewHandler(a),
		subscriber: sub,
		profiles:   profiles,
		tickLength: 50 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RunSession logs a player in and serves commands until they quit, the connection
// drops, or ctx is done. The player is disconnected from the authority exactly once.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	return m.RunNamedSession(ctx, conn, "")
}

// RunNamedSession is RunSession for a connection that already carries a login name,
// such as an ssh user. The name prompt is skipped when the name is valid.
func (m *Manager) RunNamedSession(ctx context.Context, conn io.ReadWriter, name string) error {
	r := bufio.NewReader(conn)

	name, err := m.login(r, conn, name)
	if err != nil {
		return fmt.Errorf("reading name: %w", err)
	}
	player := spell.PlayerId(strings.ToLower(name))

	profile, ok := m.profiles.Get(string(player))
	if !ok {
		profile = spell.NewProfile(m.startingSpells...)
	}

	// Subscribe before connecting so the connect push reaches the mirror.
	mirror := spellsync.NewMirror(player)
	unsubSync, err := m.subscriber.Subscribe(messaging.SyncSubject(player), func(data []byte) {
		if err := mirror.Apply(data); err != nil {
			slog.WarnContext(ctx, "applying sync push", "player", player, "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer unsubSync()

	msgs := make(chan []byte, 32)
	unsubText, err := m.subscriber.Subscribe(messaging.PlayerSubject(player), func(data []byte) {
		select {
		case msgs <- data:
		default:
			slog.WarnContext(ctx, "dropping player message", "player", player)
		}
	})
	if err != nil {
		return err
	}
	defer unsubText()

	if err := m.authority.Connect(ctx, player, profile); err != nil {
		if errors.Is(err, spell.ErrPlayerExists) {
			_, _ = io.WriteString(conn, "You are already connected elsewhere.\n")
			return nil
		}
		return fmt.Errorf("connecting %s: %w", player, err)
	}
	defer m.disconnect(ctx, player)

	s := &session{
		conn:    conn,
		reader:  r,
		handler: m.handler,
		mirror:  mirror,
		msgs:    msgs,
		cc: &commands.CommandContext{
			Player: player,
			View:   mirror,
			Out:    conn,
		},
	}
	return s.play(ctx, m.tickLength)
}

func (m *Manager) login(r *bufio.Reader, w io.Writer, name string) (string, error) {
	if name != "" {
		ok, reason := validName(name)
		if ok {
			_, err := fmt.Fprintf(w, "Welcome, %s.\n", name)
			return name, err
		}
		if _, err := io.WriteString(w, reason); err != nil {
			return "", err
		}
	}
	return prompt(r, w, "By what name are you known? ", withValidator(validName), withMaxTries(3))
}

func (m *Manager) disconnect(ctx context.Context, player spell.PlayerId) {
	ctx = context.WithoutCancel(ctx)

	profile, err := m.authority.Disconnect(ctx, player)
	if err != nil {
		slog.ErrorContext(ctx, "disconnecting player", "player", player, "error", err)
		return
	}
	if err := m.profiles.Save(string(player), profile); err != nil {
		slog.ErrorContext(ctx, "saving profile", "player", player, "error", err)
	}
}

func validName(s string) (bool, string) {
	if len(s) < minNameLength || len(s) > maxNameLength {
		return false, fmt.Sprintf("Names are %d to %d characters long.\n", minNameLength, maxNameLength)
	}
	if !storage.ValidIdentifier(s) {
		return false, "Names may only use letters, digits and hyphens.\n"
	}
	return true, ""
}
