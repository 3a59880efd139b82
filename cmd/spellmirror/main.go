package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pixil98/go-spellbook/internal/driver"
	"github.com/pixil98/go-spellbook/internal/messaging"
	"github.com/pixil98/go-spellbook/internal/mirrorui"
	"github.com/pixil98/go-spellbook/internal/spell"
	"github.com/pixil98/go-spellbook/internal/spellsync"
)

func main() {
	url := flag.String("nats", fmt.Sprintf("nats://127.0.0.1:%d", messaging.DefaultPort), "server nats url")
	player := flag.String("player", "", "player whose spells to mirror")
	tick := flag.Duration("tick", driver.DefaultTickLength, "local countdown interval, should match the server")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *url, *player, *tick, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, url, player string, tick time.Duration, logPath string) error {
	if player == "" {
		return fmt.Errorf("-player is required")
	}
	if tick < driver.MinTickLength {
		return fmt.Errorf("-tick must be at least %s", driver.MinTickLength)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var handler slog.Handler = slog.DiscardHandler
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		handler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	id := spell.PlayerId(strings.ToLower(player))

	client, err := messaging.Dial(url, "spellmirror-"+string(id))
	if err != nil {
		return err
	}
	defer client.Close()

	mirror := spellsync.NewMirror(id)
	view := mirrorui.NewView(mirror)
	mirror.OnChange(view.Refresh)

	unsub, err := client.Subscribe(messaging.SyncSubject(id), func(data []byte) {
		if err := mirror.Apply(data); err != nil {
			slog.WarnContext(ctx, "applying sync push", "player", id, "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer unsub()

	slog.InfoContext(ctx, "mirroring player", "player", id, "url", url)

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, stopUI := context.WithCancel(gctx)

	g.Go(func() error {
		defer stopUI()
		defer unsub()
		defer mirror.OnChange(nil)
		return view.Run(uiCtx)
	})

	g.Go(func() error {
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-uiCtx.Done():
				return nil
			case <-t.C:
				mirror.Tick()
			}
		}
	})

	return g.Wait()
}
