package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Arrangement != "dipole" {
		t.Errorf("expected arrangement dipole, got %s", cfg.Arrangement)
	}
	if cfg.Tracer.LinesPerCharge <= 0 {
		t.Error("lines per charge should be positive")
	}
	if cfg.Grid.Extent <= 0 {
		t.Error("grid extent should be positive")
	}
	if err := cfg.TracerSettings().Validate(); err != nil {
		t.Errorf("default tracer settings invalid: %v", err)
	}
}

func TestTolerance(t *testing.T) {
	if got := Tolerance(1); math.Abs(got-0.1) > 1e-15 {
		t.Errorf("expected 0.1, got %g", got)
	}
	if got := Tolerance(3); math.Abs(got-0.001) > 1e-15 {
		t.Errorf("expected 0.001, got %g", got)
	}
	if got := Tolerance(0); got != 1 {
		t.Errorf("expected 1, got %g", got)
	}
}

func TestSystemArrangements(t *testing.T) {
	tests := []struct {
		arrangement string
		charges     int
	}{
		{"dipole", 2},
		{"quadrupole", 4},
		{"diagonal", 3},
		{"demo", 4},
		{"random", 6},
	}

	for _, tc := range tests {
		cfg := DefaultConfig()
		cfg.Arrangement = tc.arrangement
		sys, err := cfg.System()
		if err != nil {
			t.Fatalf("%s: %v", tc.arrangement, err)
		}
		if len(sys.Charges) != tc.charges {
			t.Errorf("%s: expected %d charges, got %d", tc.arrangement, tc.charges, len(sys.Charges))
		}
	}
}

func TestSystemUnknownArrangement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Arrangement = "octopole"
	if _, err := cfg.System(); err == nil {
		t.Error("expected error for unknown arrangement")
	}
}

func TestSystemExplicitChargesWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Charges = []ChargeConfig{{X: 1, Y: 2, Q: -1}}

	sys, err := cfg.System()
	if err != nil {
		t.Fatal(err)
	}
	if len(sys.Charges) != 1 {
		t.Fatalf("expected 1 charge, got %d", len(sys.Charges))
	}
	if sys.Charges[0].Position.X != 1 || sys.Charges[0].Position.Y != 2 {
		t.Errorf("unexpected position %+v", sys.Charges[0].Position)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.yaml")

	cfg := DefaultConfig()
	cfg.Arrangement = "demo"
	cfg.Tracer.Resolution = 5
	cfg.Charges = []ChargeConfig{{X: -3, Y: 0, Q: 1}, {X: 3, Y: 0, Q: -1}}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Arrangement != "demo" || loaded.Tracer.Resolution != 5 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Charges) != 2 || loaded.Charges[1].Q != -1 {
		t.Errorf("round trip lost charges: %+v", loaded.Charges)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(os.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dipole", "classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Arrangement != "dipole" {
		t.Errorf("expected dipole, got %s", cfg.Arrangement)
	}

	if GetPreset("dipole", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "classic") != nil {
		t.Error("expected nil for nonexistent arrangement")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("demo")) == 0 {
		t.Error("expected presets for demo")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent arrangement")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for arrangement, byName := range Presets {
		for name, cfg := range byName {
			if err := cfg.TracerSettings().Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", arrangement, name, err)
			}
			if _, err := cfg.System(); err != nil {
				t.Errorf("preset %s/%s system: %v", arrangement, name, err)
			}
		}
	}
}
