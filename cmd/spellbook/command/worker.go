package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-spellbook/internal/driver"
	"github.com/pixil98/go-spellbook/internal/effects"
	"github.com/pixil98/go-spellbook/internal/listener"
	"github.com/pixil98/go-spellbook/internal/messaging"
	"github.com/pixil98/go-spellbook/internal/session"
	"github.com/pixil98/go-spellbook/internal/spell"
	"github.com/pixil98/go-spellbook/internal/spellsync"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tickLength, err := cfg.tickLength()
	if err != nil {
		return nil, err
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)

	// Load abilities
	catalog, err := cfg.Storage.BuildCatalog(effects.NewDefaultRegistry(publisher))
	if err != nil {
		return nil, err
	}
	if err := cfg.Spells.checkStartingSpells(catalog); err != nil {
		return nil, err
	}
	slog.Info("abilities loaded", "count", catalog.Len())

	profiles, err := cfg.Storage.Profiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating profile store: %w", err)
	}

	// Wire the authority to its sync channel
	channel := spellsync.NewChannel(publisher, cfg.Spells.channelOpts()...)
	authority := spell.NewAuthority(catalog, channel, spell.WithRequireLearned(cfg.Spells.RequireLearned))

	sessions := session.NewManager(authority, natsServer, profiles,
		session.WithStartingSpells(cfg.Spells.startingSpells()...),
		session.WithTickLength(tickLength),
	)
	cm := listener.NewConnectionManager(sessions)

	// Create listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = &afterReady{ready: natsServer.Ready(), worker: w}
	}

	d := driver.NewDriver([]driver.Ticker{authority}, driver.WithTickLength(tickLength))

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    d,
		"listeners": &listeners,
	}, nil
}

// afterReady holds a worker back until ready is closed, so no player connects before
// pushes can be published.
type afterReady struct {
	ready  <-chan struct{}
	worker service.Worker
}

func (w *afterReady) Start(ctx context.Context) error {
	select {
	case <-w.ready:
	case <-ctx.Done():
		return nil
	}
	return w.worker.Start(ctx)
}
