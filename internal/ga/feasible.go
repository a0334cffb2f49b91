package ga

import (
	"math/rand"
)

// FeasiblePool collects good-enough candidates across generations of one
// search. It only grows, and never beyond its capacity.
type FeasiblePool struct {
	capacity  int
	threshold float64
	entries   []*Candidate
}

// NewFeasiblePool creates a pool admitting candidates whose fitness is
// strictly above threshold
func NewFeasiblePool(capacity int, threshold float64) *FeasiblePool {
	return &FeasiblePool{
		capacity:  capacity,
		threshold: threshold,
		entries:   make([]*Candidate, 0, capacity),
	}
}

// Screen scans pop in order and admits copies of feasible candidates
// until the pool is full. It reports whether the pool is full.
func (f *FeasiblePool) Screen(pop *Population) bool {
	for _, c := range pop.Candidates {
		if f.Full() {
			break
		}
		if c.Fitness > f.threshold {
			f.entries = append(f.entries, c.Clone())
		}
	}
	return f.Full()
}

// Full reports whether the pool reached capacity
func (f *FeasiblePool) Full() bool {
	return len(f.entries) >= f.capacity
}

// Len returns the number of pooled candidates
func (f *FeasiblePool) Len() int {
	return len(f.entries)
}

// Entries returns the pooled candidates
func (f *FeasiblePool) Entries() []*Candidate {
	return f.entries
}

// Pick returns a uniformly drawn pooled candidate, or nil when empty
func (f *FeasiblePool) Pick(rng *rand.Rand) *Candidate {
	if len(f.entries) == 0 {
		return nil
	}
	return f.entries[rng.Intn(len(f.entries))]
}
