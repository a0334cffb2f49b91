package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"haliteai/internal/config"
	"haliteai/internal/grid"
	"haliteai/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/halite.yaml", "path to config file (empty for defaults)")
	replayPath := flag.String("replay", "", "replay file to play back instead of a live match")
	seed := flag.Int64("seed", 12345, "map seed for a live match")
	planner := flag.String("planner", "", "planner to use: ga or lookahead (overrides config)")
	delay := flag.Int("delay", 100, "delay between frames in milliseconds")
	noDisplay := flag.Bool("no-display", false, "run without display (just print stats)")
	flag.Parse()

	var (
		game *sim.Game
		next func() ([]sim.Command, error)
		err  error
	)
	if *replayPath != "" {
		game, next, err = fromReplay(*replayPath)
	} else {
		game, next, err = live(*configPath, *planner, *seed)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	display := NewDisplay(game.Map.Width, game.Map.Height)
	frameDelay := time.Duration(*delay) * time.Millisecond
	var last []sim.Command
	for !game.Over {
		if !*noDisplay {
			display.Render(game, last)
			time.Sleep(frameDelay)
		}
		if last, err = next(); err != nil {
			fmt.Fprintf(os.Stderr, "Error at turn %d: %v\n", game.Turn, err)
			os.Exit(1)
		}
	}
	if !*noDisplay {
		display.Render(game, last)
	}

	stats := game.Stats()
	fmt.Println()
	fmt.Println("═══════════════════════════════════")
	fmt.Printf("  Match over after %d turns (seed %d)\n", stats.Turns, stats.Seed)
	fmt.Printf("  Banked: %d, Collected: %d, Deposited: %d\n", stats.Banked, stats.Collected, stats.Deposited)
	fmt.Printf("  Ships built: %d, lost: %d\n", stats.ShipsBuilt, stats.ShipsLost)
	fmt.Println("═══════════════════════════════════")
}

// fromReplay steps through a recorded match
func fromReplay(path string) (*sim.Game, func() ([]sim.Command, error), error) {
	replay, err := sim.LoadReplay(path)
	if err != nil {
		return nil, nil, err
	}
	game, err := replay.Playback()
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Replay of seed %d: %d turns, banked %d\n",
		replay.Seed, len(replay.Turns), replay.FinalStats.Banked)

	next := func() ([]sim.Command, error) {
		if game.Turn >= len(replay.Turns) {
			return nil, fmt.Errorf("replay ends at turn %d", len(replay.Turns))
		}
		cmds := replay.Turns[game.Turn].Commands
		return cmds, replay.PlaybackStep(game, game.Turn+1)
	}
	return game, next, nil
}

// live plays a fresh match with the configured bot
func live(configPath, planner string, seed int64) (*sim.Game, func() ([]sim.Command, error), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if planner != "" {
		cfg.Bot.Planner = planner
	}
	// Planner failures would scribble over the board
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := sim.NewPlanner(cfg, quiet)
	if err != nil {
		return nil, nil, err
	}
	game, err := sim.NewGame(cfg.Sim, seed)
	if err != nil {
		return nil, nil, err
	}
	bot := sim.NewBot(cfg, p, quiet)

	next := func() ([]sim.Command, error) {
		cmds, spawn, _ := bot.Turn(game)
		return cmds, game.Step(cmds, spawn)
	}
	return game, next, nil
}

// Display handles terminal rendering
type Display struct {
	width  int
	height int
}

// NewDisplay creates a new display
func NewDisplay(width, height int) *Display {
	return &Display{width: width, height: height}
}

// shades from empty to rich cells
var shades = []rune{' ', '·', '░', '▒', '▓', '█'}

// Render draws the match state to terminal. cmds are the moves that led
// to it.
func (d *Display) Render(game *sim.Game, cmds []sim.Command) {
	clearScreen()
	maxCell := game.Config().MaxCell

	ships := make(map[grid.Coordinate]*sim.Ship, len(game.Ships))
	for _, s := range game.Ships {
		ships[s.Pos] = s
	}

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("──", d.width) + "┐\n")
	for y := 0; y < d.height; y++ {
		b.WriteString("│")
		for x := 0; x < d.width; x++ {
			c := grid.Coordinate{X: x, Y: y}
			switch s, ok := ships[c]; {
			case ok && s.Cargo > 0:
				b.WriteString(" ◆")
			case ok:
				b.WriteString(" ◇")
			case c == game.Shipyard:
				b.WriteString(" ⌂")
			default:
				r := shade(game.Map.Get(c), maxCell)
				b.WriteRune(r)
				b.WriteRune(r)
			}
		}
		b.WriteString("│\n")
	}
	b.WriteString("└" + strings.Repeat("──", d.width) + "┘\n")
	fmt.Print(b.String())

	cargo := 0
	for _, s := range game.Ships {
		cargo += s.Cargo
	}
	fmt.Printf("  Turn: %3d | Bank: %5d | Ships: %d | Cargo: %d | Lost: %d | Left: %d\n",
		game.Turn, game.Bank, len(game.Ships), cargo, game.ShipsLost, game.Map.Total())

	moves := make(map[int]grid.Direction, len(cmds))
	for _, c := range cmds {
		moves[c.ShipID] = c.Dir
	}
	var line strings.Builder
	for _, s := range game.Ships {
		// id, last move letter, cargo, distance home
		fmt.Fprintf(&line, "  #%d %c %4d d%-2d", s.ID, moves[s.ID].WireFormat(),
			s.Cargo, game.Map.Distance(s.Pos, game.Shipyard))
	}
	fmt.Println(line.String())
}

func shade(amount, maxCell int) rune {
	if amount <= 0 {
		return shades[0]
	}
	i := 1 + amount*(len(shades)-1)/(maxCell+1)
	return shades[min(i, len(shades)-1)]
}

func clearScreen() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}
