// Package sim runs single-player harvesting matches on a toroidal map:
// ships mine cells, carry cargo back to the shipyard and the bank pays for
// new ships.
package sim

import (
	"errors"
	"fmt"

	"haliteai/internal/config"
	"haliteai/internal/grid"
)

// ErrGameOver is returned by Step after the last turn
var ErrGameOver = errors.New("sim: game over")

// Ship is a harvesting unit
type Ship struct {
	ID    int
	Pos   grid.Coordinate
	Cargo int
}

// Command moves one ship. Ships without a command stay still.
type Command struct {
	ShipID int            `json:"ship"`
	Dir    grid.Direction `json:"dir"`
}

// Game represents one match
type Game struct {
	cfg  config.SimConfig
	Seed int64

	// State
	Map      *grid.Map
	Shipyard grid.Coordinate
	Ships    []*Ship // ordered by ID
	Bank     int
	Turn     int
	Over     bool

	// Counters
	Collected  int
	Deposited  int
	ShipsBuilt int
	ShipsLost  int
	Spent      int // paid in move costs

	nextID int
}

// NewGame creates a match on a generated map
func NewGame(cfg config.SimConfig, seed int64) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := grid.Generate(cfg.Width, cfg.Height, cfg.MaxCell, seed)
	if err != nil {
		return nil, err
	}
	return NewGameOnMap(cfg, seed, m), nil
}

// NewGameOnMap creates a match on a prepared map. The shipyard sits at the
// map centre and its cell is emptied.
func NewGameOnMap(cfg config.SimConfig, seed int64, m *grid.Map) *Game {
	g := &Game{
		cfg:      cfg,
		Seed:     seed,
		Map:      m,
		Shipyard: grid.Coordinate{X: m.Width / 2, Y: m.Height / 2},
		Bank:     cfg.InitialBank,
	}
	g.Map.Set(g.Shipyard, 0)
	return g
}

// Config returns the match rules
func (g *Game) Config() config.SimConfig {
	return g.cfg
}

// Ship returns the ship with the given id
func (g *Game) Ship(id int) (*Ship, bool) {
	for _, s := range g.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Step advances the match by one turn. Ships move or mine, ships sharing a
// cell are destroyed, cargo on the shipyard is banked, then a ship is
// built if requested and affordable.
func (g *Game) Step(cmds []Command, spawn bool) error {
	if g.Over {
		return ErrGameOver
	}

	moves := make(map[int]grid.Direction, len(cmds))
	for _, c := range cmds {
		if _, ok := g.Ship(c.ShipID); !ok {
			return fmt.Errorf("sim: turn %d: unknown ship %d", g.Turn, c.ShipID)
		}
		if _, dup := moves[c.ShipID]; dup {
			return fmt.Errorf("sim: turn %d: ship %d commanded twice", g.Turn, c.ShipID)
		}
		moves[c.ShipID] = c.Dir
	}

	for _, s := range g.Ships {
		g.moveOrMine(s, moves[s.ID])
	}
	g.resolveCollisions()

	for _, s := range g.Ships {
		if s.Pos == g.Shipyard && s.Cargo > 0 {
			g.Bank += s.Cargo
			g.Deposited += s.Cargo
			s.Cargo = 0
		}
	}

	if spawn && g.Bank >= g.cfg.ShipCost && !g.occupied(g.Shipyard) {
		g.Bank -= g.cfg.ShipCost
		g.Ships = append(g.Ships, &Ship{ID: g.nextID, Pos: g.Shipyard})
		g.nextID++
		g.ShipsBuilt++
	}

	g.Turn++
	if g.Turn >= g.cfg.Turns {
		g.Over = true
	}
	return nil
}

// moveOrMine moves s when it can pay the move cost; otherwise it stays
// and mines its cell
func (g *Game) moveOrMine(s *Ship, dir grid.Direction) {
	if dir.IsCardinal() {
		cost := g.MoveCost(s.Pos)
		if s.Cargo >= cost {
			s.Cargo -= cost
			g.Spent += cost
			s.Pos, _ = g.Map.Offset(s.Pos, dir)
			return
		}
	}

	amount := g.MineAmount(s)
	s.Cargo += amount
	g.Map.Add(s.Pos, -amount)
	g.Collected += amount
}

// MoveCost returns the cargo a ship pays to leave c
func (g *Game) MoveCost(c grid.Coordinate) int {
	return g.Map.Get(c) / g.cfg.MoveCostRatio
}

// MineAmount returns what s would extract by staying this turn
func (g *Game) MineAmount(s *Ship) int {
	cell := g.Map.Get(s.Pos)
	amount := (cell + g.cfg.ExtractRatio - 1) / g.cfg.ExtractRatio
	return min(amount, g.cfg.MaxCargo-s.Cargo)
}

func (g *Game) resolveCollisions() {
	byCell := make(map[grid.Coordinate][]*Ship, len(g.Ships))
	for _, s := range g.Ships {
		byCell[s.Pos] = append(byCell[s.Pos], s)
	}

	survivors := g.Ships[:0]
	for _, s := range g.Ships {
		if len(byCell[s.Pos]) == 1 {
			survivors = append(survivors, s)
			continue
		}
		g.Map.Add(s.Pos, s.Cargo)
		g.ShipsLost++
	}
	g.Ships = survivors
}

func (g *Game) occupied(c grid.Coordinate) bool {
	for _, s := range g.Ships {
		if s.Pos == c {
			return true
		}
	}
	return false
}

// Stats returns the match statistics so far
func (g *Game) Stats() EpisodeStats {
	return EpisodeStats{
		Seed:       g.Seed,
		Turns:      g.Turn,
		Banked:     g.Bank,
		Collected:  g.Collected,
		Deposited:  g.Deposited,
		Spent:      g.Spent,
		ShipsBuilt: g.ShipsBuilt,
		ShipsLost:  g.ShipsLost,
	}
}
