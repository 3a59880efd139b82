package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-spellbook/internal/effects"
	"github.com/pixil98/go-spellbook/internal/spell"
	"github.com/pixil98/go-spellbook/internal/storage"
)

type StorageConfig struct {
	Abilities AssetConfig[*effects.AbilitySpec] `json:"abilities"`
	Profiles  AssetConfig[*spell.Profile]       `json:"profiles"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Abilities.validate("abilities"))
	el.Add(c.Profiles.validate("profiles"))
	return el.Err()
}

// BuildCatalog loads every ability asset and binds it to its effect.
func (c *StorageConfig) BuildCatalog(registry *effects.Registry) (*spell.Catalog, error) {
	store, err := c.Abilities.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating ability store: %w", err)
	}

	catalog := spell.NewCatalog()
	if err := registry.Build(catalog, store.GetAll()); err != nil {
		return nil, fmt.Errorf("building abilities: %w", err)
	}

	return catalog, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	return nil
}

// BuildFileStore loads the directory, creating it when missing.
func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path, storage.WithCreateDir())
}
