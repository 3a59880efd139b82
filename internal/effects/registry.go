package effects

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
)

// Messenger sends text to a player's terminal.
type Messenger interface {
	Message(player spell.PlayerId, text string) error
}

// Factory builds the descriptor for one ability spec.
type Factory interface {
	Build(id spell.AbilityId, spec *AbilitySpec) (*spell.Descriptor, error)
}

type FactoryFunc func(id spell.AbilityId, spec *AbilitySpec) (*spell.Descriptor, error)

func (f FactoryFunc) Build(id spell.AbilityId, spec *AbilitySpec) (*spell.Descriptor, error) {
	return f(id, spec)
}

// Registry maps effect kinds to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry registers every built-in effect kind.
func NewDefaultRegistry(m Messenger) *Registry {
	r := NewRegistry()
	_ = r.RegisterFactory(EffectMessage, NewMessageFactory(m))
	_ = r.RegisterFactory(EffectChannel, NewChannelFactory(m))
	return r
}

func (r *Registry) RegisterFactory(kind string, f Factory) error {
	if _, ok := r.factories[kind]; ok {
		return fmt.Errorf("effect %q already registered", kind)
	}
	r.factories[kind] = f
	return nil
}

// Build turns every spec into a descriptor and registers it with the catalog. All
// failures are reported together.
func (r *Registry) Build(catalog *spell.Catalog, specs map[string]*AbilitySpec) error {
	ids := make([]string, 0, len(specs))
	for id := range specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	el := errors.NewErrorList()
	for _, id := range ids {
		el.Add(r.build(catalog, spell.AbilityId(id), specs[id]))
	}
	return el.Err()
}

func (r *Registry) build(catalog *spell.Catalog, id spell.AbilityId, spec *AbilitySpec) error {
	f, ok := r.factories[spec.Effect]
	if !ok {
		return fmt.Errorf("ability %q: unknown effect %q", id, spec.Effect)
	}

	d, err := f.Build(id, spec)
	if err != nil {
		return fmt.Errorf("ability %q: %w", id, err)
	}
	if d.Name == "" {
		d.Name = spec.Name
	}
	if d.Name == "" {
		d.Name = display.Title(string(id))
	}

	return catalog.Register(d)
}
