package grid

import (
	"errors"
	"testing"
)

func TestOffsetWraps(t *testing.T) {
	m, err := NewMap(5, 4)
	if err != nil {
		t.Fatalf("new map: %v", err)
	}

	tests := []struct {
		name string
		from Coordinate
		dir  Direction
		want Coordinate
	}{
		{"north edge", Coordinate{2, 0}, North, Coordinate{2, 3}},
		{"south edge", Coordinate{2, 3}, South, Coordinate{2, 0}},
		{"east edge", Coordinate{4, 1}, East, Coordinate{0, 1}},
		{"west edge", Coordinate{0, 1}, West, Coordinate{4, 1}},
		{"still", Coordinate{1, 1}, Still, Coordinate{1, 1}},
		{"far outside", Coordinate{-11, 9}, Still, Coordinate{4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Offset(tt.from, tt.dir)
			if err != nil {
				t.Fatalf("offset: %v", err)
			}
			if got != tt.want {
				t.Errorf("Offset(%v, %v) = %v, want %v", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestResourceAtNormalizes(t *testing.T) {
	m, _ := NewMap(3, 3)
	m.Set(Coordinate{0, 0}, 42)

	got, err := m.ResourceAt(Coordinate{3, -3})
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	if got != 42 {
		t.Errorf("ResourceAt = %d, want 42", got)
	}
}

func TestEmptyMapLookupFails(t *testing.T) {
	var m *Map
	if _, err := m.ResourceAt(Coordinate{}); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("ResourceAt on nil map: err = %v, want ErrEmptyMap", err)
	}
	if _, err := (&Map{}).Offset(Coordinate{}, North); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("Offset on empty map: err = %v, want ErrEmptyMap", err)
	}
}

func TestNewMapRejectsBadSize(t *testing.T) {
	if _, err := NewMap(0, 4); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(16, 16, 1000, 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := Generate(16, 16, 1000, 7)

	if a.Total() != b.Total() {
		t.Fatalf("totals differ: %d vs %d", a.Total(), b.Total())
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := Coordinate{x, y}
			if a.Get(c) != b.Get(c) {
				t.Fatalf("cell %v differs", c)
			}
			if v := a.Get(c); v < 0 || v > 1000 {
				t.Fatalf("cell %v = %d out of range", c, v)
			}
		}
	}
}

func TestDistanceAndUnsafeMoves(t *testing.T) {
	m, _ := NewMap(10, 10)

	if d := m.Distance(Coordinate{0, 0}, Coordinate{9, 9}); d != 2 {
		t.Errorf("Distance across seam = %d, want 2", d)
	}

	moves := m.UnsafeMoves(Coordinate{0, 0}, Coordinate{9, 2})
	if len(moves) != 2 || moves[0] != West || moves[1] != South {
		t.Errorf("UnsafeMoves = %v, want [west south]", moves)
	}

	if moves := m.UnsafeMoves(Coordinate{3, 3}, Coordinate{3, 3}); len(moves) != 0 {
		t.Errorf("UnsafeMoves to self = %v, want none", moves)
	}
}

func TestCardinalsExcludeStill(t *testing.T) {
	seen := map[Direction]bool{}
	for _, d := range Cardinals() {
		if !d.IsCardinal() {
			t.Errorf("%v is not cardinal", d)
		}
		seen[d] = true
	}
	if len(seen) != 4 || seen[Still] {
		t.Errorf("Cardinals = %v", Cardinals())
	}
}

func TestWireFormat(t *testing.T) {
	got := ""
	for _, d := range []Direction{North, South, East, West, Still} {
		got += string(d.WireFormat())
	}
	if got != "nsewo" {
		t.Errorf("wire letters = %q, want nsewo", got)
	}
}
