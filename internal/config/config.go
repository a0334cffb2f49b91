package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid marks a configuration that cannot be used. Sizes are never
// clamped; a bad value fails the load.
var ErrInvalid = errors.New("invalid configuration")

// Baseline modes for the carried-amount term of the fitness
const (
	BaselineOnce    = "once"
	BaselinePerStep = "per_step"
	BaselineNone    = "none"
)

// Planner names
const (
	PlannerGA        = "ga"
	PlannerLookahead = "lookahead"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64         `yaml:"seed"`
	Search  SearchConfig  `yaml:"search"`
	Fitness FitnessConfig `yaml:"fitness"`
	Sim     SimConfig     `yaml:"sim"`
	Bot     BotConfig     `yaml:"bot"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LogConfig     `yaml:"logging"`
}

// SearchConfig defines the direction search parameters
type SearchConfig struct {
	Horizon        int     `yaml:"horizon"`         // steps planned per candidate
	Population     int     `yaml:"population"`      // candidates per generation
	MaxGenerations int     `yaml:"max_generations"` // hard cap on evolve passes
	FeasibleCap    int     `yaml:"feasible_cap"`
	FeasibleMargin float64 `yaml:"feasible_margin"` // required fitness above the empty-path baseline
	SelectionStep  int     `yaml:"selection_step"`  // max parent cursor advance
	MutationP      float64 `yaml:"mutation_p"`
	PermutationP   float64 `yaml:"permutation_p"`
	InversionP     float64 `yaml:"inversion_p"`
}

// FitnessConfig defines how a planned path is scored
type FitnessConfig struct {
	YieldWeight   float64 `yaml:"yield_weight"`
	CarryWeight   float64 `yaml:"carry_weight"`
	Baseline      string  `yaml:"baseline"`
	DistinctCells bool    `yaml:"distinct_cells"`
}

// SimConfig defines the match rules
type SimConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	Turns         int `yaml:"turns"`
	MaxCell       int `yaml:"max_cell"`
	MaxCargo      int `yaml:"max_cargo"`
	ShipCost      int `yaml:"ship_cost"`
	InitialBank   int `yaml:"initial_bank"`
	MoveCostRatio int `yaml:"move_cost_ratio"`
	ExtractRatio  int `yaml:"extract_ratio"`
}

// BotConfig defines the per-turn ship policy
type BotConfig struct {
	Planner        string  `yaml:"planner"`
	LookaheadDepth int     `yaml:"lookahead_depth"`
	ReturnRatio    float64 `yaml:"return_ratio"`  // head home above this cargo fraction
	ExploreBelow   float64 `yaml:"explore_below"` // leave cells poorer than this fraction of max_cell
	MaxShips       int     `yaml:"max_ships"`
	SpawnUntil     float64 `yaml:"spawn_until"` // fraction of the match during which spawning is allowed
	Workers        int     `yaml:"workers"`
}

// BenchConfig defines benchmark runs
type BenchConfig struct {
	Matches          int     `yaml:"matches"`
	BaseSeed         int64   `yaml:"base_seed"`
	Workers          int     `yaml:"workers"`
	RobustnessLambda float64 `yaml:"robustness_lambda"` // std penalty in the robust score
}

// LogConfig defines logging and artifact output
type LogConfig struct {
	Level     string `yaml:"level"`
	CSVPath   string `yaml:"csv_path"`
	JSONPath  string `yaml:"json_path"`
	DBPath    string `yaml:"db_path"`
	ReplayDir string `yaml:"replay_dir"`
}

// Default returns the embedded default configuration
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads a YAML config file over the defaults and validates it
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML returns the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteYAML saves the configuration to path
func (c *Config) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section
func (c *Config) Validate() error {
	return errors.Join(
		c.Search.Validate(),
		c.Fitness.Validate(),
		c.Sim.Validate(),
		c.Bot.Validate(),
		c.Bench.Validate(),
	)
}

// Validate checks the search sizes and operator probabilities
func (s SearchConfig) Validate() error {
	var errs []error
	if s.Horizon <= 0 {
		errs = append(errs, invalid("search.horizon", s.Horizon))
	}
	if s.Population <= 0 {
		errs = append(errs, invalid("search.population", s.Population))
	}
	if s.MaxGenerations < 0 {
		errs = append(errs, invalid("search.max_generations", s.MaxGenerations))
	}
	if s.FeasibleCap < 1 {
		errs = append(errs, invalid("search.feasible_cap", s.FeasibleCap))
	}
	if s.SelectionStep < 0 {
		errs = append(errs, invalid("search.selection_step", s.SelectionStep))
	}
	for name, p := range map[string]float64{
		"search.mutation_p":    s.MutationP,
		"search.permutation_p": s.PermutationP,
		"search.inversion_p":   s.InversionP,
	} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			errs = append(errs, invalid(name, p))
		}
	}
	if math.IsNaN(s.FeasibleMargin) || math.IsInf(s.FeasibleMargin, 0) {
		errs = append(errs, invalid("search.feasible_margin", s.FeasibleMargin))
	}
	return errors.Join(errs...)
}

// Validate checks the blend weights and baseline mode
func (f FitnessConfig) Validate() error {
	var errs []error
	// must be positive for any path to beat the empty-path baseline
	if math.IsNaN(f.YieldWeight) || math.IsInf(f.YieldWeight, 0) || f.YieldWeight <= 0 {
		errs = append(errs, invalid("fitness.yield_weight", f.YieldWeight))
	}
	if math.IsNaN(f.CarryWeight) || math.IsInf(f.CarryWeight, 0) {
		errs = append(errs, invalid("fitness.carry_weight", f.CarryWeight))
	}
	switch f.Baseline {
	case BaselineOnce, BaselinePerStep, BaselineNone:
	default:
		errs = append(errs, invalid("fitness.baseline", f.Baseline))
	}
	return errors.Join(errs...)
}

// Validate checks the match rules
func (s SimConfig) Validate() error {
	var errs []error
	for name, v := range map[string]int{
		"sim.width":           s.Width,
		"sim.height":          s.Height,
		"sim.turns":           s.Turns,
		"sim.max_cell":        s.MaxCell,
		"sim.max_cargo":       s.MaxCargo,
		"sim.move_cost_ratio": s.MoveCostRatio,
		"sim.extract_ratio":   s.ExtractRatio,
	} {
		if v <= 0 {
			errs = append(errs, invalid(name, v))
		}
	}
	if s.ShipCost < 0 {
		errs = append(errs, invalid("sim.ship_cost", s.ShipCost))
	}
	if s.InitialBank < 0 {
		errs = append(errs, invalid("sim.initial_bank", s.InitialBank))
	}
	return errors.Join(errs...)
}

// Validate checks the ship policy
func (b BotConfig) Validate() error {
	var errs []error
	switch b.Planner {
	case PlannerGA:
	case PlannerLookahead:
		if b.LookaheadDepth <= 0 {
			errs = append(errs, invalid("bot.lookahead_depth", b.LookaheadDepth))
		}
	default:
		errs = append(errs, invalid("bot.planner", b.Planner))
	}
	if b.ReturnRatio <= 0 || b.ReturnRatio > 1 {
		errs = append(errs, invalid("bot.return_ratio", b.ReturnRatio))
	}
	if b.ExploreBelow < 0 || b.ExploreBelow > 1 {
		errs = append(errs, invalid("bot.explore_below", b.ExploreBelow))
	}
	if b.MaxShips < 0 {
		errs = append(errs, invalid("bot.max_ships", b.MaxShips))
	}
	if b.Workers < 0 {
		errs = append(errs, invalid("bot.workers", b.Workers))
	}
	return errors.Join(errs...)
}

// Validate checks the benchmark settings
func (b BenchConfig) Validate() error {
	var errs []error
	if b.Matches <= 0 {
		errs = append(errs, invalid("bench.matches", b.Matches))
	}
	if b.Workers < 0 {
		errs = append(errs, invalid("bench.workers", b.Workers))
	}
	if b.RobustnessLambda < 0 {
		errs = append(errs, invalid("bench.robustness_lambda", b.RobustnessLambda))
	}
	return errors.Join(errs...)
}

func invalid(field string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalid, field, value)
}
