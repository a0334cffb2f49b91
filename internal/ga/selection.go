package ga

import (
	"math/rand"
)

// parentCursor picks parents from a best-first population. It creeps
// forward by a random step and falls back to 0 once it leaves the top
// fifth, so early indices are chosen most often. The fifth is not
// rounded: a population of 7 admits indices below 1.4.
type parentCursor struct {
	pos  int
	step int
	size int
}

func newParentCursor(size, step int) *parentCursor {
	return &parentCursor{step: step, size: size}
}

// Next returns the index of the next parent
func (c *parentCursor) Next(rng *rand.Rand) int {
	c.pos += rng.Intn(c.step + 1)
	if c.pos*5 >= c.size {
		c.pos = 0
	}
	return c.pos
}

// SelectParents draws two parents. They may be the same candidate.
func (c *parentCursor) SelectParents(pop *Population, rng *rand.Rand) (*Candidate, *Candidate) {
	p1 := pop.Candidates[c.Next(rng)]
	p2 := pop.Candidates[c.Next(rng)]
	return p1, p2
}
