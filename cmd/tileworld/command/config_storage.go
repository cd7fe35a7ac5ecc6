package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tileworld/internal/resource"
	"github.com/pixil98/go-tileworld/internal/storage"
)

type StorageConfig struct {
	Items AssetConfig[*resource.ItemSpec]     `json:"items"`
	Tags  AssetConfig[*resource.TagSpec]      `json:"tags"`
	Tiles AssetConfig[*resource.TileTypeSpec] `json:"tiles"`
}

// BuildResourceManager loads every definition store and interns the lot
// into a resource manager. Diagnostics raised at runtime go to pub.
func (c *StorageConfig) BuildResourceManager(pub resource.Publisher) (*resource.Manager, error) {
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	tags, err := c.Tags.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating tag store: %w", err)
	}
	tiles, err := c.Tiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating tile store: %w", err)
	}

	return resource.NewManager(resource.Stores{
		Items: items,
		Tags:  tags,
		Tiles: tiles,
	}, pub)
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Items.Validate("items"))
	el.Add(c.Tags.Validate("tags"))
	el.Add(c.Tiles.Validate("tiles"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
