package world

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pixil98/go-tileworld/internal/ident"
	"github.com/pixil98/go-tileworld/internal/resource"
	"github.com/pixil98/go-tileworld/internal/tile"
)

const (
	// DefaultMapRoot is the directory snapshots live under.
	DefaultMapRoot = "map"

	snapshotExt = ".bin"

	// bufferSize sizes the buffered reader/writer around the snapshot file.
	bufferSize = 256 * 1024

	// quarantineFormat timestamps the derived name a corrupt snapshot is
	// parked under.
	quarantineFormat = "060102150405"

	// SavedSubject and LoadedSubject carry snapshot lifecycle events on
	// the messaging server.
	SavedSubject  = "map.saved"
	LoadedSubject = "map.loaded"
)

// Spawner is the supervisor capability the load path uses to bring tile
// entities back to life.
type Spawner interface {
	SpawnTileEntity(ctx context.Context, coord tile.Coord, tileType ident.Id, modifier tile.Modifier) (*tile.Entity, error)
}

// Engine serializes the whole world to durable storage and restores it.
// Saving is deliberately sequential: one synchronous entity query at a
// time, so the snapshot is fully ordered and trivially consistent. There
// is no parallel fan-out and no per-query timeout; an unresponsive entity
// stalls the save.
type Engine struct {
	root      string
	resources *resource.Manager
	events    resource.Publisher
}

// NewEngine creates a snapshot engine rooted at the given directory.
func NewEngine(root string, resources *resource.Manager, opts ...EngineOpt) *Engine {
	e := &Engine{
		root:      root,
		resources: resources,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Path returns the snapshot file path for a map name.
func (e *Engine) Path(name string) string {
	return filepath.Join(e.root, name+snapshotExt)
}

// mapDocument is the serialized snapshot. Field order is fixed and every
// field defaults to its zero value on decode, so older or partial
// documents still parse.
type mapDocument struct {
	Header   []headerEntry    `json:"header"`
	Tiles    []serializedTile `json:"tiles"`
	Data     tile.DataMapRaw  `json:"data"`
	SaveTime int64            `json:"save_time"`
}

// headerEntry records which string a saved id referred to in the run that
// wrote the snapshot. On-disk id values mean nothing across runs; the
// header is what makes them recoverable.
type headerEntry struct {
	Id   ident.Id `json:"id"`
	Name string   `json:"name"`
}

type serializedTile struct {
	Coord    tile.Coord      `json:"coord"`
	Type     ident.Id        `json:"type"`
	Modifier tile.Modifier   `json:"modifier"`
	Data     tile.DataMapRaw `json:"data"`
}

// Save checkpoints the map and its live entities to disk. Each entity is
// queried synchronously and then stopped: saving doubles as unloading, the
// snapshot is an eviction checkpoint rather than a live copy. Any query,
// encoding, or I/O failure aborts the whole save; a partial snapshot is
// never reported as success.
func (e *Engine) Save(ctx context.Context, m *Map, entities TileEntities) error {
	// Best effort; Create reports the real failure if this didn't work.
	_ = os.MkdirAll(e.root, 0755)

	interner := e.resources.Interner()

	header := map[ident.Id]string{}
	serdeTiles := make([]serializedTile, 0, len(m.Tiles))

	for coord, placement := range m.Tiles {
		entity, ok := entities[coord]
		if !ok {
			continue
		}

		name, ok := interner.Resolve(placement.Type)
		if !ok {
			return fmt.Errorf("tile %v: type id %d missing from interner", coord, placement.Type)
		}
		header[placement.Type] = name

		data, err := entity.GetData(ctx)
		if err != nil {
			return fmt.Errorf("querying tile %v: %w", coord, err)
		}

		entity.Stop()

		serdeTiles = append(serdeTiles, serializedTile{
			Coord:    coord,
			Type:     placement.Type,
			Modifier: placement.Modifier,
			Data:     data.ToRaw(interner),
		})
	}

	doc := mapDocument{
		Header:   make([]headerEntry, 0, len(header)),
		Tiles:    serdeTiles,
		Data:     m.Data.ToRaw(interner),
		SaveTime: time.Now().Unix(),
	}
	for id, name := range header {
		doc.Header = append(doc.Header, headerEntry{Id: id, Name: name})
	}

	if err := e.write(e.Path(m.Name), &doc); err != nil {
		return fmt.Errorf("writing snapshot %q: %w", m.Name, err)
	}

	m.SaveTime = doc.SaveTime

	e.publish(SavedSubject, m.Name, len(serdeTiles), doc.SaveTime)
	return nil
}

func (e *Engine) write(path string, doc *mapDocument) error {
	// Truncate-create, no rename dance: an interrupted save can leave a
	// torn file behind, which the load path quarantines.
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	bw := bufio.NewWriterSize(f, bufferSize)

	zw, err := zstd.NewWriter(bw)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("creating compressor: %w", err)
	}

	if err := json.NewEncoder(zw).Encode(doc); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return fmt.Errorf("encoding: %w", err)
	}

	if err := zw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing compressor: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	return nil
}

// Load restores a map and respawns its entities. A missing file is the
// normal "new map" path and yields an empty map under the requested name.
// A snapshot that fails to decompress or decode is quarantined: a
// diagnostic is pushed, and an empty map comes back under a derived name
// so the corrupt file is left untouched for inspection. Tiles whose type
// string is no longer registered are dropped individually. A spawn or
// replay failure makes the whole load fail over to an empty map, since a
// partially restored world is treated as corrupt.
func (e *Engine) Load(ctx context.Context, spawner Spawner, name string) (*Map, TileEntities, error) {
	f, err := os.Open(e.Path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("opening snapshot", "map", name, "error", err)
		}
		return NewEmptyMap(name), TileEntities{}, nil
	}
	defer func() { _ = f.Close() }()

	doc, err := e.read(f)
	if err != nil {
		slog.Error("decoding snapshot", "map", name, "error", err)

		errName := fmt.Sprintf("%s-ERR-%s", name, time.Now().Format(quarantineFormat))
		e.resources.PushError(e.resources.ErrIds().InvalidMapData, name, errName)

		return NewEmptyMap(errName), TileEntities{}, nil
	}

	interner := e.resources.Interner()

	// The stable string is the key: saved ids are only valid within the
	// run that wrote them.
	reverse := make(map[ident.Id]string, len(doc.Header))
	for _, h := range doc.Header {
		reverse[h.Id] = h.Name
	}

	tiles := Tiles{}
	entities := TileEntities{}

	fail := func(err error) (*Map, TileEntities, error) {
		entities.StopAll()
		return NewEmptyMap(name), TileEntities{}, err
	}

	for _, st := range doc.Tiles {
		typeName, ok := reverse[st.Type]
		if !ok {
			slog.Warn("dropping tile with no header entry", "map", name, "coord", st.Coord)
			continue
		}

		// Content removed since the save: accept losing this tile rather
		// than failing a legitimate older snapshot.
		tileType, ok := interner.Get(typeName)
		if !ok {
			slog.Warn("dropping tile with unknown type", "map", name, "coord", st.Coord, "type", typeName)
			continue
		}

		entity, err := spawner.SpawnTileEntity(ctx, st.Coord, tileType, st.Modifier)
		if err != nil {
			return fail(fmt.Errorf("spawning tile %v: %w", st.Coord, err))
		}
		entities[st.Coord] = entity

		for key, value := range tile.FromRaw(st.Data, interner) {
			if err := entity.SetData(key, value); err != nil {
				return fail(fmt.Errorf("replaying tile %v: %w", st.Coord, err))
			}
		}

		tiles[st.Coord] = TilePlacement{Type: tileType, Modifier: st.Modifier}
	}

	m := &Map{
		Name:     name,
		Tiles:    tiles,
		Data:     tile.FromRaw(doc.Data, interner),
		SaveTime: doc.SaveTime,
	}

	e.publish(LoadedSubject, m.Name, len(tiles), m.SaveTime)
	return m, entities, nil
}

func (e *Engine) read(f *os.File) (*mapDocument, error) {
	zr, err := zstd.NewReader(bufio.NewReaderSize(f, bufferSize))
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer zr.Close()

	var doc mapDocument
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	return &doc, nil
}

type snapshotEvent struct {
	Name     string `json:"name"`
	Tiles    int    `json:"tiles"`
	SaveTime int64  `json:"save_time"`
}

func (e *Engine) publish(subject, name string, tiles int, saveTime int64) {
	if e.events == nil {
		return
	}

	data, err := json.Marshal(snapshotEvent{Name: name, Tiles: tiles, SaveTime: saveTime})
	if err != nil {
		slog.Warn("marshalling snapshot event", "map", name, "error", err)
		return
	}
	if err := e.events.Publish(subject, data); err != nil {
		slog.Warn("publishing snapshot event", "subject", subject, "map", name, "error", err)
	}
}
