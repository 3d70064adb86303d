package spatial

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("a1", 3, 4, "dog")

	e, ok := r.Lookup("a1")
	if !ok {
		t.Fatal("Expected entry for a1 after Register")
	}
	if e.X != 3 || e.Z != 4 || e.Kind != "dog" {
		t.Errorf("Expected entry (3, 4, dog), got (%d, %d, %s)", e.X, e.Z, e.Kind)
	}
}

func TestIsOccupiedIgnoresSelf(t *testing.T) {
	r := NewRegistry()
	r.Register("a1", 2, 2, "dog")

	if !r.IsOccupied(2, 2, "") {
		t.Error("Expected (2,2) occupied with no ignore id")
	}
	if r.IsOccupied(2, 2, "a1") {
		t.Error("Expected (2,2) free when a1 ignores itself")
	}
	if r.IsOccupied(5, 5, "") {
		t.Error("Expected empty cell to read as free")
	}
}

func TestUpdateMovesEntry(t *testing.T) {
	r := NewRegistry()
	r.Register("a1", 1, 1, "boss")
	r.Update("a1", 7, 8)

	e, _ := r.Lookup("a1")
	if e.X != 7 || e.Z != 8 {
		t.Errorf("Expected entry at (7, 8) after Update, got (%d, %d)", e.X, e.Z)
	}
	if e.Kind != "boss" {
		t.Errorf("Expected Update to preserve kind, got %s", e.Kind)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Update("ghost", 3, 3)

	if r.Len() != 0 {
		t.Errorf("Expected Update on unknown id to not insert, len = %d", r.Len())
	}
	if r.IsOccupied(3, 3, "") {
		t.Error("Expected (3,3) free after no-op Update")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("a1", 0, 0, "dog")
	r.Unregister("a1")
	r.Unregister("a1")

	if r.Len() != 0 {
		t.Errorf("Expected empty registry after Unregister, len = %d", r.Len())
	}
	if r.IsOccupied(0, 0, "") {
		t.Error("Expected cell free after Unregister")
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	r.Register("a1", 0, 0, "dog")
	r.Register("a2", 1, 1, "boss")
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Expected empty registry after Clear, len = %d", r.Len())
	}
}
