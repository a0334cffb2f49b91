// Package ga chooses a ship's next move by evolving short planned paths
// over the resource map and taking the first step of a feasible one.
package ga

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"haliteai/internal/config"
	"haliteai/internal/grid"
)

var (
	// ErrConfiguration marks unusable search parameters
	ErrConfiguration = config.ErrInvalid
	// ErrOracleUnavailable wraps failed map lookups. No move is produced.
	ErrOracleUnavailable = errors.New("ga: grid oracle unavailable")
)

// Decision is the outcome of one search
type Decision struct {
	Direction   grid.Direction
	Fitness     float64 // fitness of the chosen plan
	Plan        []grid.Direction
	Generations int  // evolve passes run after the initial population
	Exhausted   bool // generation cap hit before the pool filled
}

// Selector runs the direction search. It keeps no state between calls and
// may be shared across goroutines as long as each uses its own rng.
type Selector struct {
	cfg    config.SearchConfig
	eval   Evaluator
	logger *slog.Logger
}

// NewSelector validates the parameters and creates a selector
func NewSelector(search config.SearchConfig, fitness config.FitnessConfig, logger *slog.Logger) (*Selector, error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}
	eval, err := NewEvaluator(fitness)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{cfg: search, eval: eval, logger: logger}, nil
}

// Choose searches for a plan starting at start and returns its first move.
// carried is the ship's current cargo. The loop runs at most
// MaxGenerations evolve passes.
func (s *Selector) Choose(rng *rand.Rand, start grid.Coordinate, oracle Oracle, carried float64) (Decision, error) {
	if oracle == nil {
		return Decision{}, fmt.Errorf("%w: nil oracle", ErrOracleUnavailable)
	}

	threshold := s.eval.Baseline(s.cfg.Horizon, carried) + s.cfg.FeasibleMargin
	pool := NewFeasiblePool(s.cfg.FeasibleCap, threshold)
	cursor := newParentCursor(s.cfg.Population, s.cfg.SelectionStep)

	pop := NewPopulation(s.cfg.Population, s.cfg.Horizon, rng)
	if err := s.score(pop, start, oracle, carried); err != nil {
		return Decision{}, err
	}
	full := pool.Screen(pop)

	gen := 0
	for ; !full && gen < s.cfg.MaxGenerations; gen++ {
		pop = evolve(pop, s.cfg, cursor, rng)
		if err := s.score(pop, start, oracle, carried); err != nil {
			return Decision{}, err
		}
		full = pool.Screen(pop)
	}

	chosen := pool.Pick(rng)
	if chosen == nil {
		chosen = pop.Best()
	}

	d := Decision{
		Direction:   chosen.First(),
		Fitness:     chosen.Fitness,
		Plan:        cloneGenes(chosen.Genes),
		Generations: gen,
		Exhausted:   !full,
	}
	if d.Exhausted {
		s.logger.Debug("search exhausted",
			"start", start,
			"generations", gen,
			"pooled", pool.Len(),
			"fitness", d.Fitness,
		)
	}
	return d, nil
}

func (s *Selector) score(pop *Population, start grid.Coordinate, oracle Oracle, carried float64) error {
	if err := s.eval.EvaluatePopulation(pop, start, oracle, carried); err != nil {
		return err
	}
	pop.SortByFitness()
	return nil
}
