package ga

import (
	"math/rand"

	"haliteai/internal/grid"
)

// SinglePointCrossover cuts at k. Child A takes p1 on [0,k] and p2 after
// k; child B the reverse. Children never share storage with the parents.
func SinglePointCrossover(p1, p2 []grid.Direction, k int) ([]grid.Direction, []grid.Direction) {
	size := len(p1)
	c1 := make([]grid.Direction, size)
	c2 := make([]grid.Direction, size)

	for i := 0; i < size; i++ {
		if i <= k {
			c1[i] = p1[i]
			c2[i] = p2[i]
		} else {
			c1[i] = p2[i]
			c2[i] = p1[i]
		}
	}

	return c1, c2
}

// TwoPointCrossover swaps the segment (lo, hi]. Child A takes p1 outside
// the segment and p2 inside it; child B the reverse.
func TwoPointCrossover(p1, p2 []grid.Direction, lo, hi int) ([]grid.Direction, []grid.Direction) {
	if lo > hi {
		lo, hi = hi, lo
	}
	size := len(p1)
	c1 := make([]grid.Direction, size)
	c2 := make([]grid.Direction, size)

	for i := 0; i < size; i++ {
		if i <= lo || i > hi {
			c1[i] = p1[i]
			c2[i] = p2[i]
		} else {
			c1[i] = p2[i]
			c2[i] = p1[i]
		}
	}

	return c1, c2
}

// cutPoint draws a cut index in [1, horizon]
func cutPoint(horizon int, rng *rand.Rand) int {
	return rng.Intn(horizon) + 1
}

// Crossover mates two parents with a randomly chosen operator
func Crossover(p1, p2 *Candidate, rng *rand.Rand) (*Candidate, *Candidate) {
	horizon := len(p1.Genes)
	var c1, c2 []grid.Direction
	if rng.Intn(2) == 0 {
		c1, c2 = SinglePointCrossover(p1.Genes, p2.Genes, cutPoint(horizon, rng))
	} else {
		lo := cutPoint(horizon, rng)
		hi := cutPoint(horizon, rng)
		c1, c2 = TwoPointCrossover(p1.Genes, p2.Genes, lo, hi)
	}
	return &Candidate{Genes: c1}, &Candidate{Genes: c2}
}
