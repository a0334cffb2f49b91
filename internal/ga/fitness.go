package ga

import (
	"fmt"

	"haliteai/internal/config"
	"haliteai/internal/grid"
)

// Oracle is a read-only view of the resource map. It must not change for
// the duration of one search.
type Oracle interface {
	ResourceAt(c grid.Coordinate) (int, error)
	Offset(c grid.Coordinate, d grid.Direction) (grid.Coordinate, error)
}

// Evaluator scores candidates by walking them over an oracle
type Evaluator struct {
	cfg config.FitnessConfig
}

// NewEvaluator creates an evaluator for the given blend
func NewEvaluator(cfg config.FitnessConfig) (Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return Evaluator{}, err
	}
	return Evaluator{cfg: cfg}, nil
}

// Evaluate walks genes from start and returns the blended yield.
// Each step adds YieldWeight times the quantity of the cell entered; the
// carried amount enters according to the baseline mode.
func (e Evaluator) Evaluate(genes []grid.Direction, start grid.Coordinate, oracle Oracle, carried float64) (float64, error) {
	var seen map[grid.Coordinate]bool
	if e.cfg.DistinctCells {
		seen = make(map[grid.Coordinate]bool, len(genes))
	}

	total := 0.0
	pos := start
	for _, d := range genes {
		next, err := oracle.Offset(pos, d)
		if err != nil {
			return 0, fmt.Errorf("%w: offset %v %v: %w", ErrOracleUnavailable, pos, d, err)
		}
		pos = next

		q, err := oracle.ResourceAt(pos)
		if err != nil {
			return 0, fmt.Errorf("%w: resource at %v: %w", ErrOracleUnavailable, pos, err)
		}
		if seen != nil {
			if seen[pos] {
				q = 0
			}
			seen[pos] = true
		}

		total += e.cfg.YieldWeight * float64(q)
		if e.cfg.Baseline == config.BaselinePerStep {
			total += e.cfg.CarryWeight * carried
		}
	}
	if e.cfg.Baseline == config.BaselineOnce {
		total += e.cfg.CarryWeight * carried
	}
	return total, nil
}

// Baseline returns the fitness of a path of horizon steps over empty cells
func (e Evaluator) Baseline(horizon int, carried float64) float64 {
	switch e.cfg.Baseline {
	case config.BaselinePerStep:
		return float64(horizon) * e.cfg.CarryWeight * carried
	case config.BaselineOnce:
		return e.cfg.CarryWeight * carried
	}
	return 0
}

// EvaluatePopulation rescores every candidate in place
func (e Evaluator) EvaluatePopulation(pop *Population, start grid.Coordinate, oracle Oracle, carried float64) error {
	for _, c := range pop.Candidates {
		f, err := e.Evaluate(c.Genes, start, oracle, carried)
		if err != nil {
			return err
		}
		c.Fitness = f
	}
	return nil
}
