package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "pythagorean" {
		t.Errorf("expected pythagorean, got %s", cfg.Name)
	}
	if len(cfg.Bodies) != 3 {
		t.Errorf("expected 3 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.Dt != 1e-5 || cfg.SimTime != 70 || cfg.FPS != 50 {
		t.Errorf("unexpected timing dt=%g sim_time=%g fps=%g", cfg.Dt, cfg.SimTime, cfg.FPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg.Name != name {
				t.Errorf("preset %s carries name %s", name, cfg.Name)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s invalid: %v", name, err)
			}
		})
	}
}

func TestListPresetsSorted(t *testing.T) {
	want := []string{"binary", "figure8", "lagrange", "pythagorean"}
	got := ListPresets()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("pythagorean")
	cfg.Bodies[0].Pos[0] = 42
	cfg.G = 9

	again := GetPreset("pythagorean")
	if again.Bodies[0].Pos[0] != 1 || again.G != 1 {
		t.Error("modifying a preset copy leaked into the preset table")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestLagrangeRotatesRigidly(t *testing.T) {
	cfg := GetPreset("lagrange")
	bodies := cfg.Initial()
	x := physics.Pack(bodies)
	positions := physics.Positions(x, 3)

	for i, b := range bodies {
		a := physics.AccelerationOn(i, cfg.G, cfg.Masses(), positions)
		centripetal := r2.Norm2(b.Vel) / r2.Norm(b.Pos)
		if math.Abs(r2.Norm(a)-centripetal) > 1e-12 {
			t.Errorf("body %d: |a| = %.15f, v^2/r = %.15f", i, r2.Norm(a), centripetal)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"one body", func(c *Config) { c.Bodies = c.Bodies[:1] }, "bodies"},
		{"zero mass", func(c *Config) { c.Bodies[1].Mass = 0 }, "bodies"},
		{"short position", func(c *Config) { c.Bodies[0].Pos = []float64{1} }, "bodies"},
		{"nan velocity", func(c *Config) { c.Bodies[2].Vel[1] = math.NaN() }, "bodies"},
		{"zero g", func(c *Config) { c.G = 0 }, "g"},
		{"zero sim time", func(c *Config) { c.SimTime = 0 }, "sim_time"},
		{"negative dt", func(c *Config) { c.Dt = -1 }, "dt"},
		{"dt beyond sim time", func(c *Config) { c.Dt = 100; c.FPS = 0.001 }, "dt"},
		{"fps finer than dt", func(c *Config) { c.Dt = 0.1 }, "fps"},
		{"zero tolerance", func(c *Config) { c.Tolerance.Rel = 0 }, "tolerance"},
		{"negative window", func(c *Config) { c.Window = -1 }, "window"},
		{"unknown integrator", func(c *Config) { c.Integrator = "bogus" }, "integrator"},
		{"negative max steps", func(c *Config) { c.MaxSteps = -5 }, "max_steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *dynamo.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %s, want %s", ce.Field, tt.field)
			}
		})
	}
}

func TestValidateAllowsZeroWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("window 0 disables trails and should be valid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figure8.yaml")
	want := GetPreset("figure8")

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Name != want.Name || got.Dt != want.Dt || got.Window != want.Window {
		t.Errorf("scalar fields differ: got %+v", got)
	}
	if got.Tolerance != want.Tolerance {
		t.Errorf("tolerance = %+v, want %+v", got.Tolerance, want.Tolerance)
	}
	for i := range want.Bodies {
		if got.Bodies[i].Mass != want.Bodies[i].Mass ||
			got.Bodies[i].Pos[0] != want.Bodies[i].Pos[0] ||
			got.Bodies[i].Vel[1] != want.Bodies[i].Vel[1] {
			t.Errorf("body %d differs: got %+v, want %+v", i, got.Bodies[i], want.Bodies[i])
		}
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("sim_time: 5\nfps: 25\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SimTime != 5 || cfg.FPS != 25 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Dt != DefaultDt || len(cfg.Bodies) != 3 {
		t.Errorf("defaults lost: dt=%g bodies=%d", cfg.Dt, len(cfg.Bodies))
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "pythagorean" {
		t.Errorf("expected defaults, got %s", cfg.Name)
	}
}

func TestParseReplacesBodies(t *testing.T) {
	cfg, err := Parse([]byte(`
bodies:
  - {mass: 1, pos: [-1, 0], vel: [0, -0.5]}
  - {mass: 1, pos: [1, 0], vel: [0, 0.5]}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.Bodies[1].Vel[1] != 0.5 {
		t.Errorf("unexpected body: %+v", cfg.Bodies[1])
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("simtime: 5\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
