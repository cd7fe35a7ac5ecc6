package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

// Asset ids are namespaced, e.g. "core/iron" or "tag/any-ore". The
// namespace segments keep content packs from colliding.
var identifierPattern = regexp.MustCompile(`^[a-z0-9_-]+(/[a-z0-9_-]+)*$`)

type ValidatingSpec interface {
	Validate() error
}

type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Id() string {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	}

	if !identifierPattern.MatchString(a.Identifier) {
		el.Add(fmt.Errorf("id must be namespaced lowercase alphanumeric"))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}
