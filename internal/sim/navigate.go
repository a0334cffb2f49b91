package sim

import (
	"haliteai/internal/grid"
)

// Navigator turns desired moves into collision-free ones for one turn.
// Every current ship cell starts taken; a ship may only enter a free cell
// and then takes it. A ship that stays keeps its own cell.
type Navigator struct {
	m     *grid.Map
	taken map[grid.Coordinate]int
}

// NewNavigator creates a navigator for the current ship positions
func NewNavigator(m *grid.Map, ships []*Ship) *Navigator {
	n := &Navigator{
		m:     m,
		taken: make(map[grid.Coordinate]int, len(ships)*2),
	}
	for _, s := range ships {
		n.taken[m.Normalize(s.Pos)] = s.ID
	}
	return n
}

// Occupied reports whether c is taken this turn
func (n *Navigator) Occupied(c grid.Coordinate) bool {
	_, ok := n.taken[n.m.Normalize(c)]
	return ok
}

// MarkUnsafe reserves c for shipID
func (n *Navigator) MarkUnsafe(c grid.Coordinate, shipID int) {
	n.taken[n.m.Normalize(c)] = shipID
}

// Resolve returns dir when the cell it leads to is free, otherwise Still
func (n *Navigator) Resolve(s *Ship, dir grid.Direction) grid.Direction {
	if !dir.IsCardinal() {
		return grid.Still
	}
	target, err := n.m.Offset(s.Pos, dir)
	if err != nil || n.Occupied(target) {
		return grid.Still
	}
	n.MarkUnsafe(target, s.ID)
	return dir
}

// NaiveNavigate moves s toward dest along the first free direction that
// brings it closer, or keeps it still
func (n *Navigator) NaiveNavigate(s *Ship, dest grid.Coordinate) grid.Direction {
	for _, dir := range n.m.UnsafeMoves(s.Pos, dest) {
		if got := n.Resolve(s, dir); got != grid.Still {
			return got
		}
	}
	return grid.Still
}
