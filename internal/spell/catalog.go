package spell

import (
	"fmt"
	"sort"
)

// Catalog maps ability ids to their descriptors. It is populated once at startup and
// read-only afterwards, so lookups need no locking.
type Catalog struct {
	abilities map[AbilityId]*Descriptor
}

func NewCatalog() *Catalog {
	return &Catalog{
		abilities: make(map[AbilityId]*Descriptor),
	}
}

// Register adds a descriptor. A duplicate id is a startup error.
func (c *Catalog) Register(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("descriptor cannot be nil")
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validating ability %q: %w", d.Id, err)
	}
	if _, exists := c.abilities[d.Id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, d.Id)
	}
	c.abilities[d.Id] = d
	return nil
}

// Get returns the descriptor for id.
func (c *Catalog) Get(id AbilityId) (*Descriptor, bool) {
	d, ok := c.abilities[id]
	return d, ok
}

// Ids returns every registered id in sorted order.
func (c *Catalog) Ids() []AbilityId {
	ids := make([]AbilityId, 0, len(c.abilities))
	for id := range c.abilities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Catalog) Len() int {
	return len(c.abilities)
}
