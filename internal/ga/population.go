package ga

import (
	"math/rand"
	"sort"

	"haliteai/internal/grid"
)

// Candidate is one planned path: a fixed-length sequence of moves
type Candidate struct {
	Genes   []grid.Direction
	Fitness float64
}

// Clone creates a deep copy of a candidate
func (c *Candidate) Clone() *Candidate {
	return &Candidate{
		Genes:   cloneGenes(c.Genes),
		Fitness: c.Fitness,
	}
}

// First returns the immediate move of the plan
func (c *Candidate) First() grid.Direction {
	if len(c.Genes) == 0 {
		return grid.Still
	}
	return c.Genes[0]
}

// Population holds the candidates of one generation
type Population struct {
	Candidates []*Candidate
	Horizon    int
}

// NewPopulation creates size candidates of horizon random cardinal moves
func NewPopulation(size, horizon int, rng *rand.Rand) *Population {
	p := &Population{
		Candidates: make([]*Candidate, size),
		Horizon:    horizon,
	}

	for i := 0; i < size; i++ {
		p.Candidates[i] = &Candidate{
			Genes: RandomGenes(horizon, rng),
		}
	}

	return p
}

// RandomGenes samples n moves uniformly from the cardinals
func RandomGenes(n int, rng *rand.Rand) []grid.Direction {
	genes := make([]grid.Direction, n)
	for i := range genes {
		genes[i] = randomCardinal(rng)
	}
	return genes
}

func randomCardinal(rng *rand.Rand) grid.Direction {
	cardinals := grid.Cardinals()
	return cardinals[rng.Intn(len(cardinals))]
}

func cloneGenes(src []grid.Direction) []grid.Direction {
	dst := make([]grid.Direction, len(src))
	copy(dst, src)
	return dst
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Candidates)
}

// SortByFitness orders candidates best first. Ties keep insertion order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Candidates, func(i, j int) bool {
		return p.Candidates[i].Fitness > p.Candidates[j].Fitness
	})
}

// Best returns the candidate with highest fitness
func (p *Population) Best() *Candidate {
	if len(p.Candidates) == 0 {
		return nil
	}
	best := p.Candidates[0]
	for _, c := range p.Candidates[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}
