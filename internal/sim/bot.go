package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"haliteai/internal/config"
	"haliteai/internal/ga"
	"haliteai/internal/grid"
	"haliteai/internal/lookahead"
)

// Planner picks a ship's intended move from a read-only map
type Planner interface {
	Choose(rng *rand.Rand, start grid.Coordinate, oracle ga.Oracle, carried float64) (ga.Decision, error)
}

// NewPlanner builds the planner named in the bot config
func NewPlanner(cfg *config.Config, logger *slog.Logger) (Planner, error) {
	switch cfg.Bot.Planner {
	case config.PlannerGA:
		sel, err := ga.NewSelector(cfg.Search, cfg.Fitness, logger)
		if err != nil {
			return nil, err
		}
		return sel, nil
	case config.PlannerLookahead:
		la, err := lookahead.New(cfg.Bot.LookaheadDepth)
		if err != nil {
			return nil, err
		}
		return la, nil
	default:
		return nil, fmt.Errorf("%w: unknown planner %q", config.ErrInvalid, cfg.Bot.Planner)
	}
}

type shipMode int

const (
	modeMine shipMode = iota
	modeExplore
	modeReturn
)

// TurnReport summarizes the planning work of one turn
type TurnReport struct {
	Ships       int
	Decisions   int
	Exhausted   int
	Failures    int
	Generations int
}

// Bot issues commands for every ship each turn
type Bot struct {
	cfg     config.BotConfig
	sim     config.SimConfig
	planner Planner
	logger  *slog.Logger
	workers int
}

// NewBot creates a bot using planner for exploring ships
func NewBot(cfg *config.Config, planner Planner, logger *slog.Logger) *Bot {
	workers := cfg.Bot.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		cfg:     cfg.Bot,
		sim:     cfg.Sim,
		planner: planner,
		logger:  logger,
		workers: workers,
	}
}

type plan struct {
	mode     shipMode
	decision ga.Decision
	err      error
}

// Turn decides the commands for the current state of g. Exploring ships
// plan in parallel against the unchanged map; moves are then made
// collision-free in ship order.
func (b *Bot) Turn(g *Game) ([]Command, bool, TurnReport) {
	ships := g.Ships
	plans := make([]plan, len(ships))
	report := TurnReport{Ships: len(ships)}

	p := pool.New().WithMaxGoroutines(b.workers)
	for i, s := range ships {
		plans[i].mode = b.mode(g, s)
		if plans[i].mode != modeExplore {
			continue
		}
		rng := rand.New(rand.NewSource(shipSeed(g.Seed, g.Turn, s.ID)))
		start, carried := s.Pos, float64(s.Cargo)
		p.Go(func() {
			plans[i].decision, plans[i].err = b.planner.Choose(rng, start, g.Map, carried)
		})
	}
	p.Wait()

	nav := NewNavigator(g.Map, ships)
	cmds := make([]Command, 0, len(ships))
	for i, s := range ships {
		dir := grid.Still
		switch plans[i].mode {
		case modeReturn:
			dir = nav.NaiveNavigate(s, g.Shipyard)
		case modeExplore:
			report.Decisions++
			if err := plans[i].err; err != nil {
				report.Failures++
				b.logger.Warn("planner failed, holding ship",
					"turn", g.Turn, "ship", s.ID, "err", err)
				break
			}
			d := plans[i].decision
			if d.Exhausted {
				report.Exhausted++
			}
			report.Generations += d.Generations
			dir = nav.Resolve(s, d.Direction)
		}
		cmds = append(cmds, Command{ShipID: s.ID, Dir: dir})
	}

	return cmds, b.shouldSpawn(g, nav), report
}

func (b *Bot) mode(g *Game, s *Ship) shipMode {
	if float64(s.Cargo) > b.cfg.ReturnRatio*float64(b.sim.MaxCargo) {
		return modeReturn
	}
	if float64(g.Map.Get(s.Pos)) < b.cfg.ExploreBelow*float64(b.sim.MaxCell) {
		return modeExplore
	}
	return modeMine
}

func (b *Bot) shouldSpawn(g *Game, nav *Navigator) bool {
	return len(g.Ships) < b.cfg.MaxShips &&
		float64(g.Turn) < b.cfg.SpawnUntil*float64(b.sim.Turns) &&
		g.Bank >= b.sim.ShipCost &&
		!nav.Occupied(g.Shipyard)
}

// shipSeed derives a per-ship, per-turn seed so parallel planning stays
// reproducible
func shipSeed(seed int64, turn, shipID int) int64 {
	return seed*1_000_003 + int64(turn)*7919 + int64(shipID)
}
