// Package lookahead plans moves by exhaustive depth-bounded search. It is
// the exact counterpart of the ga selector and is only practical for small
// depths, since the tree has 4^depth leaves.
package lookahead

import (
	"errors"
	"fmt"
	"math/rand"

	"haliteai/internal/ga"
	"haliteai/internal/grid"
)

// Planner picks the first move of the richest path of length depth.
// Cells already on the path count once.
type Planner struct {
	depth int
}

// New creates a planner searching depth steps ahead
func New(depth int) (*Planner, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: lookahead depth = %d", ga.ErrConfiguration, depth)
	}
	return &Planner{depth: depth}, nil
}

type frame struct {
	oracle  ga.Oracle
	visited map[grid.Coordinate]bool
}

// Choose returns the best first move from start, or Still when the current
// cell alone beats every path. rng and carried are unused; they keep the
// signature interchangeable with the ga selector.
func (p *Planner) Choose(_ *rand.Rand, start grid.Coordinate, oracle ga.Oracle, _ float64) (ga.Decision, error) {
	if oracle == nil {
		return ga.Decision{}, fmt.Errorf("%w: nil oracle", ga.ErrOracleUnavailable)
	}
	stay, err := oracle.ResourceAt(start)
	if err != nil {
		return ga.Decision{}, wrap(err)
	}

	f := frame{oracle: oracle, visited: map[grid.Coordinate]bool{start: true}}
	best := ga.Decision{Direction: grid.Still, Fitness: float64(stay)}
	for _, d := range grid.Cardinals() {
		total, path, err := f.walk(start, d, p.depth)
		if err != nil {
			return ga.Decision{}, err
		}
		if float64(total) > best.Fitness {
			best = ga.Decision{Direction: d, Fitness: float64(total), Plan: path}
		}
	}
	return best, nil
}

// walk steps from pos in d and returns the best total over the remaining
// depth-1 moves together with the path taken
func (f frame) walk(pos grid.Coordinate, d grid.Direction, depth int) (int, []grid.Direction, error) {
	next, err := f.oracle.Offset(pos, d)
	if err != nil {
		return 0, nil, wrap(err)
	}
	gain := 0
	if !f.visited[next] {
		if gain, err = f.oracle.ResourceAt(next); err != nil {
			return 0, nil, wrap(err)
		}
	}
	if depth == 1 {
		return gain, []grid.Direction{d}, nil
	}

	fresh := !f.visited[next]
	f.visited[next] = true
	defer func() {
		if fresh {
			delete(f.visited, next)
		}
	}()

	bestTotal, bestPath := -1, []grid.Direction(nil)
	for _, nd := range grid.Cardinals() {
		total, path, err := f.walk(next, nd, depth-1)
		if err != nil {
			return 0, nil, err
		}
		if total > bestTotal {
			bestTotal, bestPath = total, path
		}
	}
	return gain + bestTotal, append([]grid.Direction{d}, bestPath...), nil
}

func wrap(err error) error {
	if errors.Is(err, ga.ErrOracleUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ga.ErrOracleUnavailable, err)
}
