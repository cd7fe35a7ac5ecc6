package world

import (
	"time"

	"github.com/pixil98/go-tileworld/internal/ident"
	"github.com/pixil98/go-tileworld/internal/tile"
)

// TilePlacement records what occupies a coordinate: the tile type and its
// modifier. Per-tile mutable state lives in the corresponding entity, not
// here.
type TilePlacement struct {
	Type     ident.Id
	Modifier tile.Modifier
}

// Tiles is the authoritative placement table.
type Tiles map[tile.Coord]TilePlacement

// TileEntities maps coordinates to their live entities. It is maintained
// alongside Tiles: every placed tile with live state has an entity here,
// and every entity here has a placement.
type TileEntities map[tile.Coord]*tile.Entity

// StopAll stops every entity in the set.
func (te TileEntities) StopAll() {
	for _, e := range te {
		e.Stop()
	}
}

// Map is the aggregate world state: name, placements, the map's own global
// data, and the time of the last save in epoch seconds.
type Map struct {
	Name string

	Tiles Tiles
	Data  tile.DataMap

	SaveTime int64
}

// NewEmptyMap creates a fresh map with no tiles. This is both the "new
// game" path and the fallback when a snapshot cannot be used.
func NewEmptyMap(name string) *Map {
	return &Map{
		Name:     name,
		Tiles:    Tiles{},
		Data:     tile.DataMap{},
		SaveTime: time.Now().Unix(),
	}
}

// MapInfo is a read-only display summary. It is derived on demand and
// never persisted.
type MapInfo struct {
	Name     string
	Tiles    int
	Data     int
	SaveTime int64

	// Functional counts placements whose tile type carries a behavior
	// function. Info leaves it zero; the supervisor fills it in, since
	// only it can see the type registry.
	Functional int
}

// Info summarizes the map for display.
func (m *Map) Info() MapInfo {
	return MapInfo{
		Name:     m.Name,
		Tiles:    len(m.Tiles),
		Data:     len(m.Data),
		SaveTime: m.SaveTime,
	}
}
