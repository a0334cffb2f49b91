// Package grid models the toroidal resource map ships harvest from.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// ErrEmptyMap is returned by lookups on a map without cells
var ErrEmptyMap = errors.New("grid: map has no cells")

// Coordinate is a cell position. Values outside the map wrap around.
type Coordinate struct {
	X, Y int
}

// Offset returns c moved one step in d, without wrapping
func (c Coordinate) Offset(d Direction) Coordinate {
	dx, dy := d.Delta()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Map is a wraparound grid of resource quantities
type Map struct {
	Width  int
	Height int
	cells  []int
}

// NewMap creates an empty map
func NewMap(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid size %dx%d", width, height)
	}
	return &Map{
		Width:  width,
		Height: height,
		cells:  make([]int, width*height),
	}, nil
}

// Generate builds a map with coherent resource patches. The same seed
// always yields the same map.
func Generate(width, height int, maxPerCell int, seed int64) (*Map, error) {
	m, err := NewMap(width, height)
	if err != nil {
		return nil, err
	}

	noise := opensimplex.NewNormalized(seed)
	const scale = 0.18
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Two octaves, squared to leave sparse rich patches
			v := 0.7*noise.Eval2(float64(x)*scale, float64(y)*scale) +
				0.3*noise.Eval2(float64(x)*scale*3, float64(y)*scale*3)
			v = math.Pow(v, 2.2)
			m.cells[y*width+x] = int(v * float64(maxPerCell))
		}
	}
	return m, nil
}

// Normalize wraps c onto the map
func (m *Map) Normalize(c Coordinate) Coordinate {
	return Coordinate{X: wrap(c.X, m.Width), Y: wrap(c.Y, m.Height)}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func (m *Map) index(c Coordinate) int {
	c = m.Normalize(c)
	return c.Y*m.Width + c.X
}

// ResourceAt returns the quantity stored at c
func (m *Map) ResourceAt(c Coordinate) (int, error) {
	if m == nil || len(m.cells) == 0 {
		return 0, ErrEmptyMap
	}
	return m.cells[m.index(c)], nil
}

// Offset moves c one step in d with wraparound
func (m *Map) Offset(c Coordinate, d Direction) (Coordinate, error) {
	if m == nil || len(m.cells) == 0 {
		return Coordinate{}, ErrEmptyMap
	}
	return m.Normalize(c.Offset(d)), nil
}

// Get returns the quantity at c, or 0 on an empty map
func (m *Map) Get(c Coordinate) int {
	v, _ := m.ResourceAt(c)
	return v
}

// Set stores q at c
func (m *Map) Set(c Coordinate, q int) {
	m.cells[m.index(c)] = q
}

// Add changes the quantity at c by delta
func (m *Map) Add(c Coordinate, delta int) {
	m.cells[m.index(c)] += delta
}

// Total returns the sum over all cells
func (m *Map) Total() int {
	total := 0
	for _, v := range m.cells {
		total += v
	}
	return total
}

// Distance returns the wraparound Manhattan distance between a and b
func (m *Map) Distance(a, b Coordinate) int {
	dx, dy := m.delta(a, b)
	return abs(dx) + abs(dy)
}

// delta returns the shortest signed step counts from a to b
func (m *Map) delta(a, b Coordinate) (int, int) {
	a, b = m.Normalize(a), m.Normalize(b)
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx > m.Width/2 {
		dx -= m.Width
	} else if dx < -m.Width/2 {
		dx += m.Width
	}
	if dy > m.Height/2 {
		dy -= m.Height
	} else if dy < -m.Height/2 {
		dy += m.Height
	}
	return dx, dy
}

// UnsafeMoves returns the directions that bring src closer to dst,
// ignoring other ships. Empty when src and dst coincide.
func (m *Map) UnsafeMoves(src, dst Coordinate) []Direction {
	dx, dy := m.delta(src, dst)
	var moves []Direction
	if dx > 0 {
		moves = append(moves, East)
	} else if dx < 0 {
		moves = append(moves, West)
	}
	if dy > 0 {
		moves = append(moves, South)
	} else if dy < 0 {
		moves = append(moves, North)
	}
	return moves
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
