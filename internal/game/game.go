package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/pixil98/go-log"
	"github.com/pixil98/go-tileworld/internal/ident"
	"github.com/pixil98/go-tileworld/internal/resource"
	"github.com/pixil98/go-tileworld/internal/tile"
	"github.com/pixil98/go-tileworld/internal/world"
)

// Game is the supervisor owning the live world: the current map, the tile
// entities backing it, and the spawn capability the snapshot engine loads
// through. All access goes through its methods to keep the placement table
// and the entity table in lockstep.
type Game struct {
	mu sync.RWMutex

	resources *resource.Manager
	engine    *world.Engine

	m        *world.Map
	entities world.TileEntities

	mapName string
}

// NewGame creates a supervisor that will play on the named map. The map is
// not loaded until Start runs or LoadMap is called.
func NewGame(resources *resource.Manager, engine *world.Engine, mapName string) *Game {
	return &Game{
		resources: resources,
		engine:    engine,
		m:         world.NewEmptyMap(mapName),
		entities:  world.TileEntities{},
		mapName:   mapName,
	}
}

// SpawnTileEntity brings up the entity for one tile. The tile type must be
// registered; the load path resolves types before calling here, so a miss
// is a caller bug rather than a content problem.
func (g *Game) SpawnTileEntity(ctx context.Context, coord tile.Coord, tileType ident.Id, modifier tile.Modifier) (*tile.Entity, error) {
	if _, ok := g.resources.Registry().Tiles[tileType]; !ok {
		return nil, fmt.Errorf("tile type %d is not registered", tileType)
	}

	entity := tile.NewEntity(tileType, modifier)
	log.GetLogger(ctx).Infof("spawned entity %s (%s) at %v", entity.InstanceId(), g.resources.Name(tileType), coord)
	return entity, nil
}

// LoadMap replaces the owned world with the named map's snapshot. The
// previous world's entities are stopped first; the map is replaced
// wholesale, never merged. A failed load leaves the game on the empty map
// the engine substitutes.
func (g *Game) LoadMap(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entities.StopAll()

	m, entities, err := g.engine.Load(ctx, g, name)
	g.m = m
	g.entities = entities

	if err != nil {
		return fmt.Errorf("loading map %q: %w", name, err)
	}
	return nil
}

// SaveMap checkpoints the world to disk. The engine stops every entity it
// reads, so a successful save also unloads the world: the entity table is
// cleared and the placements stay behind as the record of what was saved.
func (g *Game) SaveMap(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.engine.Save(ctx, g.m, g.entities); err != nil {
		return fmt.Errorf("saving map %q: %w", g.m.Name, err)
	}

	g.entities = world.TileEntities{}
	return nil
}

// PlaceTile creates a tile at a coordinate, replacing whatever was there.
func (g *Game) PlaceTile(ctx context.Context, coord tile.Coord, tileType ident.Id, modifier tile.Modifier) (*tile.Entity, error) {
	entity, err := g.SpawnTileEntity(ctx, coord, tileType, modifier)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.entities[coord]; ok {
		old.Stop()
	}

	g.m.Tiles[coord] = world.TilePlacement{Type: tileType, Modifier: modifier}
	g.entities[coord] = entity
	return entity, nil
}

// RemoveTile deletes a tile and stops its entity. Removing an empty
// coordinate is a no-op.
func (g *Game) RemoveTile(coord tile.Coord) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entities[coord]; ok {
		e.Stop()
		delete(g.entities, coord)
	}
	delete(g.m.Tiles, coord)
}

// Entity returns the live entity at a coordinate, or nil.
func (g *Game) Entity(coord tile.Coord) *tile.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.entities[coord]
}

// MapInfo summarizes the current map for display, including how many
// placed tiles have a behavior function.
func (g *Game) MapInfo() world.MapInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	info := g.m.Info()
	tiles := g.resources.Registry().Tiles
	for _, p := range g.m.Tiles {
		if tiles[p.Type].HasFunction {
			info.Functional++
		}
	}
	return info
}

// Tick verifies the structural invariant between placements and entities
// and reaps entities that stopped on their own. Placements without a live
// entity are legal (just-saved worlds); entities without a placement are
// not, and get stopped.
func (g *Game) Tick(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for coord, e := range g.entities {
		if _, ok := g.m.Tiles[coord]; !ok {
			log.GetLogger(ctx).Errorf("stopping orphaned entity %s at %v", e.InstanceId(), coord)
			e.Stop()
			delete(g.entities, coord)
			continue
		}

		select {
		case <-e.Done():
			log.GetLogger(ctx).Infof("reaped stopped entity %s at %v", e.InstanceId(), coord)
			delete(g.entities, coord)
		default:
		}
	}

	return nil
}

// Start loads the configured map, then runs until the context is
// cancelled, at which point the world is checkpointed to disk.
func (g *Game) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	if err := g.LoadMap(ctx, g.mapName); err != nil {
		logger.Errorf("loading map, starting empty: %v", err)
	}

	info := g.MapInfo()
	logger.Infof("map %q loaded: %d tiles, %d functional", info.Name, info.Tiles, info.Functional)

	<-ctx.Done()

	// Shutdown is the checkpoint: save-and-unload everything still live.
	if err := g.SaveMap(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("saving on shutdown: %w", err)
	}

	return nil
}
