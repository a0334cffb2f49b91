package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"haliteai/internal/config"
	"haliteai/internal/eval"
	"haliteai/internal/logging"
	"haliteai/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/halite.yaml", "path to config file (empty for defaults)")
	matches := flag.Int("matches", 0, "number of matches (overrides config)")
	planner := flag.String("planner", "", "planner to use: ga or lookahead (overrides config)")
	dbPath := flag.String("db", "", "sqlite results database (overrides config, \"-\" disables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *matches > 0 {
		cfg.Bench.Matches = *matches
	}
	if *planner != "" {
		cfg.Bot.Planner = *planner
	}
	if *dbPath != "" {
		cfg.Logging.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q\n", cfg.Logging.Level)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("benchmark failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	configYAML, err := cfg.YAML()
	if err != nil {
		return err
	}
	runRec := store.NewRun(cfg.Bot.Planner, configYAML)
	runDir := filepath.Join(cfg.Logging.ReplayDir, runRec.ID)
	if err := cfg.WriteYAML(filepath.Join(runDir, "config.yaml")); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	evaluator, err := eval.NewEvaluator(cfg, logger)
	if err != nil {
		return err
	}
	metrics, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, logger)
	if err != nil {
		return err
	}
	defer metrics.Close()

	logger.Info("benchmark starting",
		"run", runRec.ID,
		"planner", cfg.Bot.Planner,
		"matches", cfg.Bench.Matches,
		"map", fmt.Sprintf("%dx%d", cfg.Sim.Width, cfg.Sim.Height),
		"turns", cfg.Sim.Turns,
	)
	start := time.Now()

	res, err := evaluator.RunBenchmark(evaluator.Seeds())
	if err != nil {
		return err
	}
	for _, ep := range res.Episodes {
		if err := metrics.LogEpisode(ep); err != nil {
			return err
		}
	}
	metrics.LogBenchmark(res.Aggregate, cfg.Bench.RobustnessLambda)
	logger.Info("benchmark complete", "elapsed", time.Since(start).Round(time.Millisecond))

	if res.Best != nil {
		path := filepath.Join(runDir, fmt.Sprintf("replay_seed%d.json.zst", res.Best.Seed))
		if err := res.Best.Save(path); err != nil {
			logger.Warn("failed to save replay", "path", path, "err", err)
		} else {
			logger.Info("best replay saved", "path", path, "banked", res.Best.FinalStats.Banked)
		}
	}

	if cfg.Logging.DBPath == "" || cfg.Logging.DBPath == "-" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Logging.DBPath), 0755); err != nil {
		return err
	}
	db := store.NewSQLiteStore(cfg.Logging.DBPath)
	if err := db.Init(ctx); err != nil {
		return fmt.Errorf("opening results db: %w", err)
	}
	defer db.Close()

	runRec.Aggregate = res.Aggregate
	if err := db.SaveRun(ctx, runRec); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	if err := db.SaveEpisodes(ctx, runRec.ID, res.Episodes); err != nil {
		return fmt.Errorf("saving matches: %w", err)
	}
	logger.Info("results stored", "db", cfg.Logging.DBPath, "run", runRec.ID)
	return nil
}
