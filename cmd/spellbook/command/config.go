package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-spellbook/internal/driver"
)

const defaultTickInterval = "50ms"

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Spells       SpellsConfig     `json:"spells"`
	Listeners    []ListenerConfig `json:"listeners"`
	Storage      StorageConfig    `json:"storage"`
	Nats         NatsConfig       `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := c.tickLength(); err != nil {
		el.Add(err)
	}

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Spells.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}

func (c *Config) tickLength() (time.Duration, error) {
	s := c.TickInterval
	if s == "" {
		s = defaultTickInterval
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing tick_interval: %w", err)
	}
	if d < driver.MinTickLength {
		return 0, fmt.Errorf("tick_interval must be at least %s", driver.MinTickLength)
	}
	return d, nil
}
