package eval

import (
	"errors"
	"testing"

	"haliteai/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Sim.Width, cfg.Sim.Height = 16, 16
	cfg.Sim.Turns = 50
	cfg.Search.Horizon = 4
	cfg.Search.Population = 16
	cfg.Bench.Matches = 3
	cfg.Bench.Workers = 2
	return cfg
}

func TestRunMatchFillsPlannerCounters(t *testing.T) {
	e, err := NewEvaluator(smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	stats, replay, err := e.RunMatch(5)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Turns != 50 || len(replay.Turns) != 50 {
		t.Errorf("turns = %d, recorded %d", stats.Turns, len(replay.Turns))
	}
	if stats.Decisions == 0 {
		t.Error("no planner decisions recorded")
	}
	if stats.Exhausted > stats.Decisions || stats.Failures != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if replay.FinalStats != stats {
		t.Errorf("replay stats %+v, match stats %+v", replay.FinalStats, stats)
	}
}

func TestRunBenchmarkMatchesSequentialRuns(t *testing.T) {
	cfg := smallConfig()
	e, err := NewEvaluator(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	seeds := e.Seeds()
	if len(seeds) != 3 || seeds[0] != cfg.Bench.BaseSeed {
		t.Fatalf("seeds = %v", seeds)
	}

	res, err := e.RunBenchmark(seeds)
	if err != nil {
		t.Fatal(err)
	}
	if res.Aggregate.NumEpisodes != 3 {
		t.Errorf("episodes = %d, want 3", res.Aggregate.NumEpisodes)
	}
	for i, seed := range seeds {
		want, _, err := e.RunMatch(seed)
		if err != nil {
			t.Fatal(err)
		}
		if res.Episodes[i] != want {
			t.Errorf("seed %d: parallel %+v, sequential %+v", seed, res.Episodes[i], want)
		}
	}
	if res.Best == nil || float64(res.Best.FinalStats.Banked) != res.Aggregate.BankedMax {
		t.Errorf("best replay does not hold the max banked match")
	}
}

func TestNewEvaluatorRejectsBadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Bot.Planner = "random"
	if _, err := NewEvaluator(cfg, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
