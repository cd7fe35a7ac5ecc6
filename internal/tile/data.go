package tile

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/pixil98/go-tileworld/internal/ident"
)

// Data is the closed set of value types a tile (or the map itself) can
// store in its DataMap. Each variant round-trips through the raw,
// string-keyed form used on disk.
type Data interface {
	isData()
}

type (
	// Bool is a flag value.
	Bool bool
	// Int is a general-purpose counter or setting.
	Int int64
	// IdValue references another identifier, such as a script or an item.
	IdValue ident.Id
	// CoordValue points at another map cell.
	CoordValue Coord
	// VecCoord is an ordered list of map cells, such as a link chain.
	VecCoord []Coord
	// VecId is an ordered list of identifiers.
	VecId []ident.Id
	// Inventory counts items by identifier.
	Inventory map[ident.Id]int64
)

func (Bool) isData()       {}
func (Int) isData()        {}
func (IdValue) isData()    {}
func (CoordValue) isData() {}
func (VecCoord) isData()   {}
func (VecId) isData()      {}
func (Inventory) isData()  {}

// Get returns the count for an item, zero if absent.
func (inv Inventory) Get(id ident.Id) int64 {
	return inv[id]
}

// Add adjusts the count for an item, clamping at zero.
func (inv Inventory) Add(id ident.Id, amount int64) {
	n := inv[id] + amount
	if n <= 0 {
		delete(inv, id)
		return
	}
	inv[id] = n
}

// DataMap is the typed key-value store attached to a tile entity or to the
// map globally. It is owned exclusively by whichever entity holds it;
// concurrent access goes through the owning entity's message interface.
type DataMap map[ident.Id]Data

// Clone returns a copy deep enough to hand across a goroutine boundary.
// Scalar variants are copied by value; slice and map variants are copied
// element-wise.
func (d DataMap) Clone() DataMap {
	out := make(DataMap, len(d))
	for k, v := range d {
		switch v := v.(type) {
		case VecCoord:
			out[k] = VecCoord(slices.Clone(v))
		case VecId:
			out[k] = VecId(slices.Clone(v))
		case Inventory:
			out[k] = Inventory(maps.Clone(v))
		default:
			out[k] = v
		}
	}
	return out
}

// ToRaw converts the typed map to its string-keyed raw form. Keys or
// id-valued entries that do not resolve through the interner came from a
// foreign interner; they are dropped with a warning rather than written
// out as meaningless integers.
func (d DataMap) ToRaw(in *ident.Interner) DataMapRaw {
	raw := make(DataMapRaw, len(d))
	for k, v := range d {
		name, ok := in.Resolve(k)
		if !ok {
			slog.Warn("dropping data entry with unresolvable key", "id", k)
			continue
		}

		rv, ok := dataToRaw(v, in)
		if !ok {
			slog.Warn("dropping data entry with unresolvable value", "key", name)
			continue
		}
		raw[name] = rv
	}
	return raw
}

// FromRaw converts a raw map back to typed form. Keys and id values are
// interned on demand; this is the one pathway that may add identifiers
// after startup. Entries whose raw form is malformed are dropped with a
// warning, matching the load path's best-effort recovery.
func FromRaw(raw DataMapRaw, in *ident.Interner) DataMap {
	d := make(DataMap, len(raw))
	for name, rv := range raw {
		v, err := dataFromRaw(rv, in)
		if err != nil {
			slog.Warn("dropping malformed data entry", "key", name, "error", err)
			continue
		}
		d[in.Intern(name)] = v
	}
	return d
}
