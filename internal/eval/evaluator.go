package eval

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"haliteai/internal/config"
	"haliteai/internal/sim"
)

// Evaluator plays matches with the configured bot
type Evaluator struct {
	cfg     *config.Config
	planner sim.Planner
	logger  *slog.Logger
	workers int
}

// NewEvaluator creates a new evaluator. The planner is shared by every
// match; both planners keep no state between calls.
func NewEvaluator(cfg *config.Config, logger *slog.Logger) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	planner, err := sim.NewPlanner(cfg, logger)
	if err != nil {
		return nil, err
	}

	workers := cfg.Bench.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{
		cfg:     cfg,
		planner: planner,
		logger:  logger,
		workers: workers,
	}, nil
}

// Seeds returns the benchmark seed suite
func (e *Evaluator) Seeds() []int64 {
	seeds := make([]int64, e.cfg.Bench.Matches)
	for i := range seeds {
		seeds[i] = e.cfg.Bench.BaseSeed + int64(i)
	}
	return seeds
}

// RunMatch plays one full match and records it
func (e *Evaluator) RunMatch(seed int64) (sim.EpisodeStats, *sim.Replay, error) {
	game, err := sim.NewGame(e.cfg.Sim, seed)
	if err != nil {
		return sim.EpisodeStats{}, nil, err
	}
	bot := sim.NewBot(e.cfg, e.planner, e.logger)
	replay := sim.NewReplay(seed, e.cfg.Sim)

	var decisions, exhausted, failures, generations int
	for !game.Over {
		cmds, spawn, report := bot.Turn(game)
		decisions += report.Decisions
		exhausted += report.Exhausted
		failures += report.Failures
		generations += report.Generations

		replay.Record(cmds, spawn)
		if err := game.Step(cmds, spawn); err != nil {
			return sim.EpisodeStats{}, nil, fmt.Errorf("match %d: %w", seed, err)
		}
	}

	stats := game.Stats()
	stats.Decisions = decisions
	stats.Exhausted = exhausted
	stats.Failures = failures
	if decisions > 0 {
		stats.MeanGenerations = float64(generations) / float64(decisions)
	}
	replay.SetFinalStats(stats)
	return stats, replay, nil
}

// BenchmarkResult holds every match of a benchmark run
type BenchmarkResult struct {
	Episodes  []sim.EpisodeStats // in seed order
	Aggregate sim.AggregatedStats
	Best      *sim.Replay // highest banked match
}

// RunBenchmark plays one match per seed in parallel
func (e *Evaluator) RunBenchmark(seeds []int64) (BenchmarkResult, error) {
	episodes := make([]sim.EpisodeStats, len(seeds))
	replays := make([]*sim.Replay, len(seeds))

	p := pool.New().WithErrors().WithMaxGoroutines(e.workers)
	for i, seed := range seeds {
		p.Go(func() error {
			stats, replay, err := e.RunMatch(seed)
			if err != nil {
				return err
			}
			episodes[i], replays[i] = stats, replay
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return BenchmarkResult{}, err
	}

	res := BenchmarkResult{
		Episodes:  episodes,
		Aggregate: sim.Aggregate(episodes),
	}
	for i, r := range replays {
		if res.Best == nil || episodes[i].Banked > res.Best.FinalStats.Banked {
			res.Best = r
		}
	}
	return res, nil
}
