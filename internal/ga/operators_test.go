package ga

import (
	"math/rand"
	"slices"
	"testing"

	"haliteai/internal/config"
	"haliteai/internal/grid"
)

var (
	n = grid.North
	s = grid.South
	e = grid.East
	w = grid.West
)

func repeat(d grid.Direction, size int) []grid.Direction {
	out := make([]grid.Direction, size)
	for i := range out {
		out[i] = d
	}
	return out
}

func TestSinglePointCrossoverKeepsSegments(t *testing.T) {
	const horizon = 6
	p1 := repeat(n, horizon)
	p2 := repeat(s, horizon)

	for k := 1; k <= horizon; k++ {
		c1, c2 := SinglePointCrossover(p1, p2, k)
		if len(c1) != horizon || len(c2) != horizon {
			t.Fatalf("k=%d: child lengths %d/%d", k, len(c1), len(c2))
		}
		for i := 0; i < horizon; i++ {
			want1, want2 := p1[i], p2[i]
			if i > k {
				want1, want2 = p2[i], p1[i]
			}
			if c1[i] != want1 || c2[i] != want2 {
				t.Errorf("k=%d pos %d: got %v/%v, want %v/%v", k, i, c1[i], c2[i], want1, want2)
			}
		}
	}
}

func TestTwoPointCrossoverSwapsInnerSegment(t *testing.T) {
	p1 := []grid.Direction{n, n, n, n, n}
	p2 := []grid.Direction{s, e, w, e, s}

	c1, c2 := TwoPointCrossover(p1, p2, 3, 1)

	want1 := []grid.Direction{n, n, w, e, n}
	want2 := []grid.Direction{s, e, n, n, s}
	if !slices.Equal(c1, want1) {
		t.Errorf("child A = %v, want %v", c1, want1)
	}
	if !slices.Equal(c2, want2) {
		t.Errorf("child B = %v, want %v", c2, want2)
	}
}

func TestCrossoverChildrenDoNotAliasParents(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p1 := &Candidate{Genes: repeat(n, 5)}
	p2 := &Candidate{Genes: repeat(e, 5)}

	for i := 0; i < 50; i++ {
		c1, c2 := Crossover(p1, p2, rng)
		for j := range c1.Genes {
			c1.Genes[j] = w
			c2.Genes[j] = w
		}
		if !slices.Equal(p1.Genes, repeat(n, 5)) || !slices.Equal(p2.Genes, repeat(e, 5)) {
			t.Fatalf("parent changed after writing to children: %v %v", p1.Genes, p2.Genes)
		}
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name       string
		pos1, pos2 int
		want       []grid.Direction
	}{
		{"same position is no-op", 2, 2, []grid.Direction{n, s, e, w, n}},
		{"inner span", 1, 3, []grid.Direction{n, w, e, s, n}},
		{"unordered positions", 3, 1, []grid.Direction{n, w, e, s, n}},
		{"whole sequence", 0, 4, []grid.Direction{n, w, e, s, n}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Candidate{Genes: []grid.Direction{n, s, e, w, n}}
			Invert(c, tt.pos1, tt.pos2)
			if !slices.Equal(c.Genes, tt.want) {
				t.Errorf("Invert(%d, %d) = %v, want %v", tt.pos1, tt.pos2, c.Genes, tt.want)
			}
		})
	}
}

func TestMutationFamilyKeepsLengthAndCardinals(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cfg := config.Default().Search
	cfg.MutationP, cfg.PermutationP, cfg.InversionP = 0.4, 0.4, 0.4

	ops := map[string]func(*Candidate){
		"point":   func(c *Candidate) { PointMutate(c, rng) },
		"permute": func(c *Candidate) { Permute(c, rng) },
		"invert":  func(c *Candidate) { InvertRandom(c, rng) },
		"family":  func(c *Candidate) { MutateCandidate(c, cfg, rng) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			c := &Candidate{Genes: RandomGenes(7, rng)}
			for i := 0; i < 500; i++ {
				op(c)
				if len(c.Genes) != 7 {
					t.Fatalf("length changed to %d", len(c.Genes))
				}
				for _, g := range c.Genes {
					if !g.IsCardinal() {
						t.Fatalf("illegal gene %v", g)
					}
				}
			}
		})
	}
}

func TestPermuteKeepsGeneMultiset(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c := &Candidate{Genes: []grid.Direction{n, n, s, e, w, w}}
	count := func(genes []grid.Direction) map[grid.Direction]int {
		m := map[grid.Direction]int{}
		for _, g := range genes {
			m[g]++
		}
		return m
	}
	before := count(c.Genes)

	for i := 0; i < 100; i++ {
		Permute(c, rng)
		InvertRandom(c, rng)
	}

	after := count(c.Genes)
	for d, k := range before {
		if after[d] != k {
			t.Errorf("%v count %d, want %d", d, after[d], k)
		}
	}
}

func TestParentCursorStaysInTopFifth(t *testing.T) {
	tests := []struct {
		size    int
		wantMax int
	}{
		{70, 13},
		{10, 1},
		{3, 0},
		{7, 1},  // indices below 1.4
		{9, 1},  // below 1.8
		{12, 2}, // below 2.4
	}

	rng := rand.New(rand.NewSource(9))
	for _, tt := range tests {
		cursor := newParentCursor(tt.size, 6)
		top := 0
		for i := 0; i < 1000; i++ {
			idx := cursor.Next(rng)
			if idx < 0 || idx > tt.wantMax {
				t.Fatalf("size %d: index %d outside [0,%d]", tt.size, idx, tt.wantMax)
			}
			top = max(top, idx)
		}
		if top != tt.wantMax {
			t.Errorf("size %d: highest index drawn %d, want %d", tt.size, top, tt.wantMax)
		}
	}
}

func TestMutateCandidateAppliesAtMostOneOperator(t *testing.T) {
	tests := []struct {
		name         string
		mutation     float64
		permutation  float64
		inversion    float64
		maxChanged   int
		sameMultiset bool
	}{
		{"point mutation wins", 1, 1, 1, 1, false},
		{"permutation wins over inversion", 0, 1, 1, 2, true},
		{"inversion alone", 0, 0, 1, 8, true},
		{"nothing triggers", 0, 0, 0, 0, true},
	}

	count := func(genes []grid.Direction) map[grid.Direction]int {
		m := map[grid.Direction]int{}
		for _, g := range genes {
			m[g]++
		}
		return m
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(17))
			cfg := config.Default().Search
			cfg.MutationP, cfg.PermutationP, cfg.InversionP = tt.mutation, tt.permutation, tt.inversion

			for i := 0; i < 1000; i++ {
				c := &Candidate{Genes: RandomGenes(8, rng)}
				before := cloneGenes(c.Genes)
				MutateCandidate(c, cfg, rng)

				changed := 0
				for j := range before {
					if before[j] != c.Genes[j] {
						changed++
					}
				}
				if changed > tt.maxChanged {
					t.Fatalf("%v -> %v: %d genes changed, want at most %d", before, c.Genes, changed, tt.maxChanged)
				}
				if !tt.sameMultiset {
					continue
				}
				want, got := count(before), count(c.Genes)
				for d, k := range want {
					if got[d] != k {
						t.Fatalf("%v -> %v: %v count %d, want %d", before, c.Genes, d, got[d], k)
					}
				}
			}
		})
	}
}

func TestEvolvePairsOddPopulations(t *testing.T) {
	cfg := config.Default().Search
	rng := rand.New(rand.NewSource(21))

	for _, size := range []int{1, 3, 7, 10, 11} {
		pop := NewPopulation(size, 4, rng)
		cursor := newParentCursor(size, cfg.SelectionStep)

		next := evolve(pop, cfg, cursor, rng)
		if next.Size() != size {
			t.Fatalf("size %d: next generation has %d", size, next.Size())
		}
		for i, c := range next.Candidates {
			if c == nil {
				t.Fatalf("size %d: slot %d empty", size, i)
			}
			if len(c.Genes) != 4 {
				t.Fatalf("size %d: slot %d has %d genes", size, i, len(c.Genes))
			}
			for _, old := range pop.Candidates {
				if &c.Genes[0] == &old.Genes[0] {
					t.Fatalf("size %d: slot %d aliases a parent", size, i)
				}
			}
		}
	}
}

func TestNewPopulationNeverSamplesStill(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := NewPopulation(50, 10, rng)

	for _, c := range pop.Candidates {
		if c.Fitness != 0 {
			t.Errorf("initial fitness %v, want 0", c.Fitness)
		}
		for _, g := range c.Genes {
			if g == grid.Still {
				t.Fatal("sampled Still")
			}
		}
	}
}

func TestSortByFitnessBestFirst(t *testing.T) {
	pop := &Population{Candidates: []*Candidate{
		{Fitness: 1}, {Fitness: 5}, {Fitness: 3},
	}}
	pop.SortByFitness()

	got := []float64{pop.Candidates[0].Fitness, pop.Candidates[1].Fitness, pop.Candidates[2].Fitness}
	if !slices.Equal(got, []float64{5, 3, 1}) {
		t.Errorf("order = %v", got)
	}
	if pop.Best().Fitness != 5 {
		t.Errorf("Best = %v", pop.Best().Fitness)
	}
}
