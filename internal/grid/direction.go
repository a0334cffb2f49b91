package grid

// Direction is a ship movement
type Direction int

const (
	Still Direction = iota
	North
	South
	East
	West
)

var cardinals = [4]Direction{North, South, East, West}

// Cardinals returns the four moving directions
func Cardinals() []Direction {
	out := cardinals
	return out[:]
}

// IsCardinal reports whether d moves a ship
func (d Direction) IsCardinal() bool {
	return d >= North && d <= West
}

// Delta returns the (dx, dy) step for d. North is toward y-1.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// WireFormat returns the single-letter engine encoding
func (d Direction) WireFormat() byte {
	switch d {
	case North:
		return 'n'
	case South:
		return 's'
	case East:
		return 'e'
	case West:
		return 'w'
	}
	return 'o'
}

func (d Direction) String() string {
	switch d {
	case Still:
		return "still"
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}
