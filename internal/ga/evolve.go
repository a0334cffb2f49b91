package ga

import (
	"math/rand"

	"haliteai/internal/config"
)

// evolve builds the next generation from pop, which must be sorted best
// first. Slots are filled in pairs (0,1), (2,3), ... from one crossover
// each, then every child goes through the mutation family. The old
// generation is replaced entirely.
//
// With an odd size the last slot is mated like the others and keeps child
// A; its partner slot wraps to 0, which is already filled, so child B is
// dropped.
func evolve(pop *Population, cfg config.SearchConfig, cursor *parentCursor, rng *rand.Rand) *Population {
	n := pop.Size()
	next := &Population{
		Candidates: make([]*Candidate, n),
		Horizon:    pop.Horizon,
	}

	for i := 0; i < n; i += 2 {
		mother, father := cursor.SelectParents(pop, rng)
		c1, c2 := Crossover(mother, father, rng)
		next.Candidates[i] = c1
		if i+1 < n {
			next.Candidates[i+1] = c2
		}
	}

	for _, c := range next.Candidates {
		MutateCandidate(c, cfg, rng)
	}

	return next
}
