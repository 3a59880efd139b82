package effects

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"
)

// AbilitySpec is the stored definition of one ability. Effect selects the Factory that
// turns it into a spell.Descriptor; Config is passed to that factory untouched.
type AbilitySpec struct {
	Name          string          `json:"name,omitempty"`
	Description   string          `json:"description,omitempty"`
	CooldownTicks int             `json:"cooldown_ticks"`
	HoldToCast    bool            `json:"hold_to_cast,omitempty"`
	Effect        string          `json:"effect"`
	Config        json.RawMessage `json:"config,omitempty"`
}

func (s *AbilitySpec) Validate() error {
	el := errors.NewErrorList()

	if s.Effect == "" {
		el.Add(fmt.Errorf("effect must be set"))
	}
	if s.CooldownTicks < 0 {
		el.Add(fmt.Errorf("cooldown_ticks must not be negative"))
	}

	return el.Err()
}

// decodeConfig unmarshals the effect config into out. An absent config leaves out untouched.
func (s *AbilitySpec) decodeConfig(out any) error {
	if len(s.Config) == 0 {
		return nil
	}
	if err := json.Unmarshal(s.Config, out); err != nil {
		return fmt.Errorf("decoding %s config: %w", s.Effect, err)
	}
	return nil
}
