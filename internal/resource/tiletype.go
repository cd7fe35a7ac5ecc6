package resource

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tileworld/internal/ident"
)

// TileTypeSpec defines a placeable tile type as loaded from asset files.
type TileTypeSpec struct {
	Name     string `json:"name"`
	Model    string `json:"model"`
	Function string `json:"function,omitempty"`
}

func (s *TileTypeSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	if s.Model == "" {
		el.Add(fmt.Errorf("model must be set"))
	}

	return el.Err()
}

// TileType is the interned runtime form of a tile type definition.
type TileType struct {
	Id    ident.Id
	Model ident.Id

	// Function is the script identifier driving this tile's behavior.
	// Zero-valued HasFunction means the tile is inert.
	Function    ident.Id
	HasFunction bool
}
