package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tileworld/internal/world"
)

type MapConfig struct {
	// Root is the directory snapshots are written under.
	Root string `json:"root"`
	// Name is the map to load on startup.
	Name string `json:"name"`
}

func (c *MapConfig) validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	return el.Err()
}

func (c *MapConfig) root() string {
	if c.Root == "" {
		return world.DefaultMapRoot
	}
	return c.Root
}
