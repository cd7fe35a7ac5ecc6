package resource

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tileworld/internal/ident"
)

// ItemSpec defines an item as loaded from asset files.
type ItemSpec struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

func (s *ItemSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	if s.Model == "" {
		el.Add(fmt.Errorf("model must be set"))
	}

	return el.Err()
}

// Item is the interned runtime form of an item definition.
type Item struct {
	Id    ident.Id
	Model ident.Id
}
