package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Search.Horizon != 8 || cfg.Search.FeasibleCap != 1 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Fitness.YieldWeight != 0.25 || cfg.Fitness.CarryWeight != 0.75 {
		t.Errorf("unexpected fitness defaults: %+v", cfg.Fitness)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("search:\n  horizon: 3\nfitness:\n  baseline: per_step\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Search.Horizon != 3 {
		t.Errorf("horizon = %d, want 3", cfg.Search.Horizon)
	}
	if cfg.Search.Population != 40 {
		t.Errorf("population = %d, want default 40", cfg.Search.Population)
	}
	if cfg.Fitness.Baseline != BaselinePerStep {
		t.Errorf("baseline = %q", cfg.Fitness.Baseline)
	}
}

func TestLoadRejectsNonPositiveSizes(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero horizon", "search:\n  horizon: 0\n"},
		{"negative population", "search:\n  population: -5\n"},
		{"zero feasible cap", "search:\n  feasible_cap: 0\n"},
		{"probability above one", "search:\n  mutation_p: 1.5\n"},
		{"unknown baseline", "fitness:\n  baseline: twice\n"},
		{"zero yield weight", "fitness:\n  yield_weight: 0\n"},
		{"negative yield weight", "fitness:\n  yield_weight: -0.5\n"},
		{"unknown planner", "bot:\n  planner: astar\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Load err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Search.Population = 11
	path := filepath.Join(t.TempDir(), "out", "config.yaml")

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Search.Population != 11 {
		t.Errorf("population = %d, want 11", loaded.Search.Population)
	}
}

func TestShippedConfigsLoad(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "configs", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no configs directory")
	}
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			if _, err := Load(p); err != nil {
				t.Errorf("load %s: %v", p, err)
			}
		})
	}
}
