package agent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDefinitionsValidate(t *testing.T) {
	if err := DefaultDefinitions().Validate(); err != nil {
		t.Errorf("Expected default definitions to validate, got %v", err)
	}
}

func TestMoveIntervalAtScalesAndFloors(t *testing.T) {
	def := Definition{MoveInterval: 30, MoveIntervalPerLevel: 1.5, MoveIntervalMin: 12}

	if got := def.MoveIntervalAt(1); got != 30 {
		t.Errorf("Expected level-1 interval 30, got %d", got)
	}
	if got := def.MoveIntervalAt(5); got != 24 {
		t.Errorf("Expected level-5 interval 24, got %d", got)
	}
	if got := def.MoveIntervalAt(50); got != 12 {
		t.Errorf("Expected interval floored at 12, got %d", got)
	}
}

func TestCountAtGrowsAndCaps(t *testing.T) {
	def := Definition{CountBase: 3, CountPerLevel: 0.75, CountMax: 12}

	if got := def.CountAt(1); got != 3 {
		t.Errorf("Expected level-1 count 3, got %d", got)
	}
	if got := def.CountAt(5); got != 6 {
		t.Errorf("Expected level-5 count 6, got %d", got)
	}
	if got := def.CountAt(100); got != 12 {
		t.Errorf("Expected count capped at 12, got %d", got)
	}
}

func TestVariantRoundTrip(t *testing.T) {
	for _, v := range Variants {
		got, ok := VariantFromKey(v.String())
		if !ok || got != v {
			t.Errorf("Expected key %q to map back to %v", v.String(), v)
		}
	}
	if _, ok := VariantFromKey("gremlin"); ok {
		t.Error("Expected unknown key to fail lookup")
	}
}

func TestLoadDefinitionsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	body := []byte(`agents:
  dog:
    name: Hound
    move_interval: 10
    move_interval_min: 4
    chase_interval_scale: 0.5
    chase_range: 9
    chase_buffer: 3
    can_chase: true
    checks_occupancy: true
    patrol_range: 5
    count_base: 2
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("Expected overlay file to load, got %v", err)
	}
	if defs[VariantDog].Name != "Hound" || defs[VariantDog].ChaseRange != 9 {
		t.Errorf("Expected dog record replaced, got %+v", defs[VariantDog])
	}
	if defs[VariantPatroller].Name != "Patroller" {
		t.Errorf("Expected untouched variants to keep defaults, got %+v", defs[VariantPatroller])
	}
}

func TestLoadDefinitionsRejectsUnknownVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	body := []byte("agents:\n  gremlin:\n    move_interval: 5\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadDefinitions(path); err == nil {
		t.Error("Expected error for unknown variant key")
	}
}

func TestValidateRejectsBadRecords(t *testing.T) {
	defs := DefaultDefinitions()
	d := defs[VariantDog]
	d.ChaseIntervalScale = 0
	defs[VariantDog] = d
	if err := defs.Validate(); err == nil {
		t.Error("Expected validation failure for zero chase interval scale")
	}

	defs = DefaultDefinitions()
	delete(defs, VariantBoss)
	if err := defs.Validate(); err == nil {
		t.Error("Expected validation failure for missing variant")
	}
}
