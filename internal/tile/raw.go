package tile

import (
	"fmt"

	"github.com/pixil98/go-tileworld/internal/ident"
)

// Raw data variant tags. These are part of the on-disk format; once
// assigned a tag must never change meaning.
const (
	rawBool      = "bool"
	rawInt       = "int"
	rawId        = "id"
	rawCoord     = "coord"
	rawVecCoord  = "vec_coord"
	rawVecId     = "vec_id"
	rawInventory = "inventory"
)

// DataRaw is the self-describing serialized form of a single Data value.
// Exactly one payload field is meaningful, selected by Type; the rest stay
// empty so unknown or missing fields tolerate format evolution.
type DataRaw struct {
	Type string `json:"type"`

	Bool bool  `json:"bool,omitempty"`
	Int  int64 `json:"int,omitempty"`
	// Id is never omitempty: the empty string is a legal interner key, so
	// an id payload must round-trip even when it is "".
	Id        string           `json:"id"`
	Coord     *Coord           `json:"coord,omitempty"`
	Coords    []Coord          `json:"coords,omitempty"`
	Ids       []string         `json:"ids,omitempty"`
	Inventory map[string]int64 `json:"inventory,omitempty"`
}

// DataMapRaw is a DataMap with every identifier replaced by its stable
// string form, ready for serialization.
type DataMapRaw map[string]DataRaw

func dataToRaw(v Data, in *ident.Interner) (DataRaw, bool) {
	switch v := v.(type) {
	case Bool:
		return DataRaw{Type: rawBool, Bool: bool(v)}, true
	case Int:
		return DataRaw{Type: rawInt, Int: int64(v)}, true
	case IdValue:
		name, ok := in.Resolve(ident.Id(v))
		if !ok {
			return DataRaw{}, false
		}
		return DataRaw{Type: rawId, Id: name}, true
	case CoordValue:
		c := Coord(v)
		return DataRaw{Type: rawCoord, Coord: &c}, true
	case VecCoord:
		return DataRaw{Type: rawVecCoord, Coords: v}, true
	case VecId:
		names := make([]string, 0, len(v))
		for _, id := range v {
			name, ok := in.Resolve(id)
			if !ok {
				return DataRaw{}, false
			}
			names = append(names, name)
		}
		return DataRaw{Type: rawVecId, Ids: names}, true
	case Inventory:
		counts := make(map[string]int64, len(v))
		for id, n := range v {
			name, ok := in.Resolve(id)
			if !ok {
				return DataRaw{}, false
			}
			counts[name] = n
		}
		return DataRaw{Type: rawInventory, Inventory: counts}, true
	default:
		return DataRaw{}, false
	}
}

func dataFromRaw(rv DataRaw, in *ident.Interner) (Data, error) {
	switch rv.Type {
	case rawBool:
		return Bool(rv.Bool), nil
	case rawInt:
		return Int(rv.Int), nil
	case rawId:
		return IdValue(in.Intern(rv.Id)), nil
	case rawCoord:
		if rv.Coord == nil {
			return nil, fmt.Errorf("coord value missing payload")
		}
		return CoordValue(*rv.Coord), nil
	case rawVecCoord:
		return VecCoord(rv.Coords), nil
	case rawVecId:
		ids := make(VecId, 0, len(rv.Ids))
		for _, name := range rv.Ids {
			ids = append(ids, in.Intern(name))
		}
		return ids, nil
	case rawInventory:
		inv := make(Inventory, len(rv.Inventory))
		for name, n := range rv.Inventory {
			inv[in.Intern(name)] = n
		}
		return inv, nil
	default:
		return nil, fmt.Errorf("unknown data type %q", rv.Type)
	}
}
