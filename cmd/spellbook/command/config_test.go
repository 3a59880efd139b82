package command

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-spellbook/internal/effects"
	"github.com/pixil98/go-spellbook/internal/listener"
	"github.com/pixil98/go-spellbook/internal/spell"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		TickInterval: "50ms",
		Listeners:    []ListenerConfig{{Protocol: ListenerTypeTelnet, Port: 4000}},
		Storage: StorageConfig{
			Abilities: AssetConfig[*effects.AbilitySpec]{Path: dir + "/abilities"},
			Profiles:  AssetConfig[*spell.Profile]{Path: dir + "/profiles"},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *Config)
		expErr string
	}{
		"valid": {
			mutate: func(*Config) {},
		},
		"default tick interval": {
			mutate: func(c *Config) { c.TickInterval = "" },
		},
		"bad tick interval": {
			mutate: func(c *Config) { c.TickInterval = "soon" },
			expErr: "parsing tick_interval",
		},
		"tick interval too short": {
			mutate: func(c *Config) { c.TickInterval = "5ms" },
			expErr: "tick_interval must be at least 10ms",
		},
		"listener without port": {
			mutate: func(c *Config) { c.Listeners[0].Port = 0 },
			expErr: "listener 0: port must be set",
		},
		"host key on telnet": {
			mutate: func(c *Config) { c.Listeners[0].HostKeyPath = "/tmp/key" },
			expErr: "host_key_path only applies to ssh",
		},
		"missing profiles path": {
			mutate: func(c *Config) { c.Storage.Profiles.Path = "" },
			expErr: "profiles: path is required",
		},
		"bad starting spell": {
			mutate: func(c *Config) { c.Spells.StartingSpells = []string{"magic missile"} },
			expErr: "not a valid ability id",
		},
		"bad nats timeout": {
			mutate: func(c *Config) { c.Nats.StartTimeout = "later" },
			expErr: "parsing start_timeout",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := validConfig(t)
			tt.mutate(c)
			err := c.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Unmarshal(t *testing.T) {
	raw := `{
		"tick_interval": "20ms",
		"spells": {"cooldown_sync_interval": 0, "require_learned": true, "starting_spells": ["heal"]},
		"listeners": [{"protocol": "ssh", "port": 2222}],
		"storage": {"abilities": {"path": "a"}, "profiles": {"path": "p"}},
		"nats": {"port": -1}
	}`

	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	d, err := c.tickLength()
	if err != nil {
		t.Fatalf("tick length: %v", err)
	}
	testutil.AssertEqual(t, "tick length", d, 20*time.Millisecond)
	testutil.AssertEqual(t, "protocol", c.Listeners[0].Protocol, ListenerTypeSSH)
	testutil.AssertEqual(t, "require learned", c.Spells.RequireLearned, true)
	testutil.AssertEqual(t, "cooldown sync disabled", *c.Spells.CooldownSyncInterval, uint64(0))
	testutil.AssertEqual(t, "slot resync default", c.Spells.SlotResyncInterval == nil, true)
	testutil.AssertEqual(t, "channel opts", len(c.Spells.channelOpts()), 1)
	testutil.AssertEqual(t, "nats port", c.Nats.Port, -1)
}

func TestListenerType_UnmarshalText(t *testing.T) {
	var lt ListenerType
	testutil.AssertErrorContains(t, lt.UnmarshalText([]byte("gopher")), "unknown listener type")
}

func TestBuildWorkers(t *testing.T) {
	c := validConfig(t)
	c.Nats.Port = -1
	c.Spells.StartingSpells = []string{"heal"}

	_, err := BuildWorkers(c)
	testutil.AssertErrorContains(t, err, `starting spell "heal"`)

	_, err = BuildWorkers(struct{}{})
	testutil.AssertErrorContains(t, err, "unable to cast config")

	c.Spells.StartingSpells = nil
	workers, err := BuildWorkers(c)
	if err != nil {
		t.Fatalf("building workers: %v", err)
	}
	for _, name := range []string{"nats", "driver", "listeners"} {
		if _, ok := workers[name]; !ok {
			t.Errorf("missing worker %q", name)
		}
	}
}

func TestListenerConfig_BuildListener(t *testing.T) {
	tests := map[string]struct {
		cfg     ListenerConfig
		expAddr string
		expErr  string
	}{
		"telnet on all interfaces": {
			cfg:     ListenerConfig{Protocol: ListenerTypeTelnet, Port: 4000},
			expAddr: ":4000",
		},
		"ssh with ephemeral key": {
			cfg:     ListenerConfig{Protocol: ListenerTypeSSH, Host: "127.0.0.1", Port: 4022},
			expAddr: "127.0.0.1:4022",
		},
		"ssh with missing key file": {
			cfg:     ListenerConfig{Protocol: ListenerTypeSSH, Port: 4022, HostKeyPath: "/nonexistent/key"},
			expAddr: ":4022",
			expErr:  "reading host key",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "addr", tt.cfg.addr(), tt.expAddr)

			w, err := tt.cfg.buildListener(listener.NewConnectionManager(nil))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w == nil {
				t.Fatal("no listener built")
			}
		})
	}
}
