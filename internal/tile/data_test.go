package tile

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tileworld/internal/ident"
)

func TestParseCoord(t *testing.T) {
	tests := []struct {
		in      string
		want    Coord
		wantErr bool
	}{
		{in: "0,0", want: Coord{}},
		{in: "3,-2", want: Coord{Q: 3, R: -2}},
		{in: " -7 , 12 ", want: Coord{Q: -7, R: 12}},
		{in: "12", wantErr: true},
		{in: "a,b", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseCoord(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCoord(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCoord(%q): unexpected error: %v", tc.in, err)
			continue
		}
		testutil.AssertEqual(t, tc.in, got, tc.want)
	}
}

func TestDataMapRawRoundTrip(t *testing.T) {
	in := ident.NewInterner()

	iron := in.Intern("core/iron")
	copper := in.Intern("core/copper")
	script := in.Intern("script/smelt")

	d := DataMap{
		in.Intern("data/enabled"): Bool(true),
		in.Intern("data/amount"):  Int(-40),
		in.Intern("data/script"):  IdValue(script),
		in.Intern("data/target"):  CoordValue(Coord{Q: 1, R: -1}),
		in.Intern("data/link"):    VecCoord{{Q: 0, R: 0}, {Q: 2, R: 3}},
		in.Intern("data/filters"): VecId{iron, copper},
		in.Intern("data/inventory"): Inventory{
			iron:   64,
			copper: 3,
		},
	}

	raw := d.ToRaw(in)
	testutil.AssertEqual(t, "raw size", len(raw), len(d))

	back := FromRaw(raw, in)
	if !reflect.DeepEqual(back, d) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", back, d)
	}
}

func TestFromRawIntoFreshInterner(t *testing.T) {
	// Serialize with one interner, deserialize with another: the raw form
	// must carry enough information to rebuild the typed map even though
	// every integer id differs between the two runs.
	first := ident.NewInterner()
	first.Intern("padding/a")
	first.Intern("padding/b")
	iron := first.Intern("core/iron")

	d := DataMap{
		first.Intern("data/script"): IdValue(iron),
	}
	raw := d.ToRaw(first)

	second := ident.NewInterner()
	back := FromRaw(raw, second)

	key, ok := second.Get("data/script")
	if !ok {
		t.Fatal("expected key to be interned on load")
	}
	v, ok := back[key]
	if !ok {
		t.Fatal("expected entry to survive the round trip")
	}

	name, ok := second.Resolve(ident.Id(v.(IdValue)))
	if !ok {
		t.Fatal("expected id value to resolve in the new interner")
	}
	testutil.AssertEqual(t, "value name", name, "core/iron")
}

func TestToRawDropsForeignIds(t *testing.T) {
	in := ident.NewInterner()
	key := in.Intern("data/script")

	d := DataMap{
		key:         IdValue(ident.Id(999)),
		ident.Id(7): Bool(true),
	}

	raw := d.ToRaw(in)
	testutil.AssertEqual(t, "raw size", len(raw), 0)
}

func TestFromRawDropsMalformed(t *testing.T) {
	in := ident.NewInterner()

	raw := DataMapRaw{
		"data/bad":      {Type: "no-such-type"},
		"data/no-coord": {Type: "coord"},
		"data/enabled":  {Type: "bool", Bool: true},
	}

	d := FromRaw(raw, in)
	testutil.AssertEqual(t, "size", len(d), 1)

	key, _ := in.Get("data/enabled")
	testutil.AssertEqual(t, "survivor", d[key], Data(Bool(true)))
}

func TestEmptyIdRoundTrip(t *testing.T) {
	in := ident.NewInterner()
	key := in.Intern("data/script")
	empty := in.Intern("")

	raw := DataMap{key: IdValue(empty)}.ToRaw(in)

	buf, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded DataMapRaw
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := FromRaw(decoded, in)
	testutil.AssertEqual(t, "size", len(d), 1)
	testutil.AssertEqual(t, "value", d[key], Data(IdValue(empty)))
}

func TestDataMapClone(t *testing.T) {
	in := ident.NewInterner()
	key := in.Intern("data/inventory")
	iron := in.Intern("core/iron")

	d := DataMap{key: Inventory{iron: 1}}
	c := d.Clone()

	c[key].(Inventory).Add(iron, 5)
	testutil.AssertEqual(t, "original count", d[key].(Inventory).Get(iron), int64(1))
}
