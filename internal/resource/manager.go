package resource

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pixil98/go-tileworld/internal/ident"
	"github.com/pixil98/go-tileworld/internal/storage"
)

// ErrorsSubject is the messaging subject diagnostics are published on.
const ErrorsSubject = "game.errors"

// Unnamed is the display fallback for ids without a translation entry.
const Unnamed = "<unnamed>"

// Publisher is the sink diagnostics are pushed to. The embedded messaging
// server satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Stores bundles the definition stores the manager is built from.
type Stores struct {
	Items storage.Storer[*ItemSpec]
	Tags  storage.Storer[*TagSpec]
	Tiles storage.Storer[*TileTypeSpec]
}

// ErrIds holds pre-interned ids for the error messages the core raises.
type ErrIds struct {
	InvalidMapData ident.Id
}

// Manager owns the interner, the registry, and the translation table. It is
// handed by reference to every component needing string-to-id translation;
// nothing reaches it through package globals.
type Manager struct {
	interner *ident.Interner
	registry *Registry
	names    map[ident.Id]string

	errIds ErrIds
	errors Publisher
}

// NewManager interns every definition in the given stores and builds the
// immutable registry. The errors publisher may be nil, in which case
// diagnostics only reach the log.
func NewManager(stores Stores, errors Publisher) (*Manager, error) {
	m := &Manager{
		interner: ident.NewInterner(),
		registry: &Registry{
			Items: map[ident.Id]Item{},
			Tags:  map[ident.Id]Tag{},
			Tiles: map[ident.Id]TileType{},
		},
		names:  map[ident.Id]string{},
		errors: errors,
	}

	m.errIds = ErrIds{
		InvalidMapData: m.interner.Intern("error/invalid-map-data"),
	}

	for id, spec := range stores.Items.GetAll() {
		itemId := m.interner.Intern(id)
		m.registry.Items[itemId] = Item{
			Id:    itemId,
			Model: m.interner.Intern(spec.Model),
		}
		m.names[itemId] = spec.Name
	}

	for id, spec := range stores.Tags.GetAll() {
		tagId := m.interner.Intern(id)
		if _, ok := m.registry.Items[tagId]; ok {
			return nil, fmt.Errorf("tag %q collides with an item id", id)
		}

		entries := make(map[ident.Id]struct{}, len(spec.Entries))
		for _, e := range spec.Entries {
			entries[m.interner.Intern(e)] = struct{}{}
		}
		m.registry.Tags[tagId] = Tag{Id: tagId, Entries: entries}
		m.names[tagId] = spec.Name
	}

	for id, spec := range stores.Tiles.GetAll() {
		tileId := m.interner.Intern(id)
		tt := TileType{
			Id:    tileId,
			Model: m.interner.Intern(spec.Model),
		}
		if spec.Function != "" {
			tt.Function = m.interner.Intern(spec.Function)
			tt.HasFunction = true
		}
		m.registry.Tiles[tileId] = tt
		m.names[tileId] = spec.Name
	}

	m.orderItems()

	return m, nil
}

// orderItems sorts the registry's item ids by display name, breaking ties
// on the stable string id so the order never depends on interning order.
func (m *Manager) orderItems() {
	ids := make([]ident.Id, 0, len(m.registry.Items))
	for id := range m.registry.Items {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b ident.Id) int {
		if c := strings.Compare(m.Name(a), m.Name(b)); c != 0 {
			return c
		}
		as, _ := m.interner.Resolve(a)
		bs, _ := m.interner.Resolve(b)
		return strings.Compare(as, bs)
	})

	m.registry.OrderedItems = ids
}

// Interner returns the process-wide identifier interner.
func (m *Manager) Interner() *ident.Interner {
	return m.interner
}

// Registry returns the immutable definition registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// ErrIds returns the pre-interned error message ids.
func (m *Manager) ErrIds() ErrIds {
	return m.errIds
}

// Name returns the display name for an id, falling back to a marker when
// no translation exists.
func (m *Manager) Name(id ident.Id) string {
	if name, ok := m.names[id]; ok {
		return name
	}
	return Unnamed
}

type diagnostic struct {
	Key  string   `json:"key"`
	Args []string `json:"args,omitempty"`
}

// PushError surfaces a user-visible diagnostic. It always reaches the log;
// when a publisher is configured it is also published for any UI or
// tooling listening on the errors subject.
func (m *Manager) PushError(key ident.Id, args ...string) {
	name, _ := m.interner.Resolve(key)
	slog.Warn("game error", "key", name, "args", args)

	if m.errors == nil {
		return
	}

	data, err := json.Marshal(diagnostic{Key: name, Args: args})
	if err != nil {
		slog.Warn("marshalling diagnostic", "key", name, "error", err)
		return
	}
	if err := m.errors.Publish(ErrorsSubject, data); err != nil {
		slog.Warn("publishing diagnostic", "key", name, "error", err)
	}
}
