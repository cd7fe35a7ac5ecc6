package resource

import (
	"github.com/pixil98/go-tileworld/internal/ident"
)

// Registry holds the interned runtime form of every loaded definition. It
// is built once during startup and never mutated afterwards, which is what
// lets the tag resolution cache skip invalidation entirely.
type Registry struct {
	Items map[ident.Id]Item
	Tags  map[ident.Id]Tag
	Tiles map[ident.Id]TileType

	// OrderedItems lists item ids sorted by display name. Tag resolution
	// scans this so resolved lists come out in a stable, presentable order.
	OrderedItems []ident.Id
}
