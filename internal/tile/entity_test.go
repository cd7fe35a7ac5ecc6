package tile

import (
	"context"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tileworld/internal/ident"
)

func TestEntitySetThenGet(t *testing.T) {
	in := ident.NewInterner()
	e := NewEntity(in.Intern("core/machine"), 0)
	defer e.Stop()

	key := in.Intern("data/enabled")
	if err := e.SetData(key, Bool(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := e.GetData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "value", data[key], Data(Bool(true)))
}

func TestEntityLastWriterWins(t *testing.T) {
	in := ident.NewInterner()
	e := NewEntity(in.Intern("core/machine"), 0)
	defer e.Stop()

	key := in.Intern("data/count")
	if err := e.SetData(key, Int(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.SetData(key, Int(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok, err := e.GetDataValue(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	testutil.AssertEqual(t, "value", v, Data(Int(2)))
}

func TestEntityRemoveData(t *testing.T) {
	in := ident.NewInterner()
	e := NewEntity(in.Intern("core/machine"), 0)
	defer e.Stop()

	key := in.Intern("data/target")
	if err := e.SetData(key, CoordValue(Coord{Q: 1, R: -1})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.RemoveData(key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, ok, err := e.GetDataValue(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected key to be removed")
	}
}

func TestEntityGetDataReturnsCopy(t *testing.T) {
	in := ident.NewInterner()
	e := NewEntity(in.Intern("core/machine"), 0)
	defer e.Stop()

	key := in.Intern("data/inventory")
	iron := in.Intern("core/iron")
	if err := e.SetData(key, Inventory{iron: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := e.GetData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the snapshot must not leak back into the entity.
	data[key].(Inventory).Add(iron, 10)

	v, _, err := e.GetDataValue(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "count", v.(Inventory).Get(iron), int64(5))
}

func TestEntityStopped(t *testing.T) {
	in := ident.NewInterner()
	e := NewEntity(in.Intern("core/machine"), 0)

	e.Stop()
	<-e.Done()

	if err := e.SetData(in.Intern("data/enabled"), Bool(true)); err != ErrEntityStopped {
		t.Errorf("expected ErrEntityStopped, got %v", err)
	}
	if _, err := e.GetData(context.Background()); err != ErrEntityStopped {
		t.Errorf("expected ErrEntityStopped, got %v", err)
	}
}

func TestEntityStopIsIdempotent(t *testing.T) {
	in := ident.NewInterner()
	e := NewEntity(in.Intern("core/machine"), 0)

	e.Stop()
	e.Stop()
	<-e.Done()
}

func TestEntityMetadata(t *testing.T) {
	in := ident.NewInterner()
	typeId := in.Intern("core/machine")
	e := NewEntity(typeId, 3)
	defer e.Stop()

	testutil.AssertEqual(t, "type", e.Type(), typeId)
	testutil.AssertEqual(t, "modifier", e.Modifier(), Modifier(3))
}

func TestEntityInstanceIdsAreUnique(t *testing.T) {
	in := ident.NewInterner()
	typeId := in.Intern("core/machine")

	a := NewEntity(typeId, 0)
	defer a.Stop()
	b := NewEntity(typeId, 0)
	defer b.Stop()

	if a.InstanceId() == b.InstanceId() {
		t.Fatalf("expected distinct instance ids, both %s", a.InstanceId())
	}
	testutil.AssertEqual(t, "stable", a.InstanceId(), a.InstanceId())
}
