package ga

import (
	"math/rand"
	"slices"

	"haliteai/internal/config"
)

// PointMutate replaces one random gene with a fresh cardinal move
func PointMutate(c *Candidate, rng *rand.Rand) {
	if len(c.Genes) == 0 {
		return
	}
	c.Genes[rng.Intn(len(c.Genes))] = randomCardinal(rng)
}

// Permute swaps two random genes
func Permute(c *Candidate, rng *rand.Rand) {
	if len(c.Genes) == 0 {
		return
	}
	i := rng.Intn(len(c.Genes))
	j := rng.Intn(len(c.Genes))
	c.Genes[i], c.Genes[j] = c.Genes[j], c.Genes[i]
}

// Invert reverses genes[pos1..pos2] inclusive. Equal positions are a no-op.
func Invert(c *Candidate, pos1, pos2 int) {
	if pos2 < pos1 {
		pos1, pos2 = pos2, pos1
	}
	slices.Reverse(c.Genes[pos1 : pos2+1])
}

// InvertRandom reverses the span between two random positions
func InvertRandom(c *Candidate, rng *rand.Rand) {
	if len(c.Genes) == 0 {
		return
	}
	Invert(c, rng.Intn(len(c.Genes)), rng.Intn(len(c.Genes)))
}

// MutateCandidate applies at most one of point mutation, permutation and
// inversion, each tried in turn with its own probability. c must be a
// child that shares no storage with its parents.
func MutateCandidate(c *Candidate, cfg config.SearchConfig, rng *rand.Rand) {
	switch {
	case rng.Float64() < cfg.MutationP:
		PointMutate(c, rng)
	case rng.Float64() < cfg.PermutationP:
		Permute(c, rng)
	case rng.Float64() < cfg.InversionP:
		InvertRandom(c, rng)
	}
}
