package storage

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

const assetVersion = 1

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidIdentifier reports whether s can be used as an asset id and file name.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope around every stored record.
type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	} else if a.Version > assetVersion {
		el.Add(fmt.Errorf("version %d is newer than supported version %d", a.Version, assetVersion))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !ValidIdentifier(a.Identifier) {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	if v := reflect.ValueOf(a.Spec); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		el.Add(fmt.Errorf("spec must be set"))
	} else {
		el.Add(a.Spec.Validate())
	}

	return el.Err()
}
