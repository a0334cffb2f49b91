package logging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"haliteai/internal/sim"
)

// Logger writes per-match metrics to CSV and JSON lines and summarizes
// them on the console
type Logger struct {
	csvPath  string
	jsonPath string
	csvFile  *os.File
	jsonFile *os.File
	console  *slog.Logger

	headerWritten bool
}

// NewLogger creates the output files, truncating earlier runs
func NewLogger(csvPath, jsonPath string, console *slog.Logger) (*Logger, error) {
	if console == nil {
		console = slog.Default()
	}
	l := &Logger{csvPath: csvPath, jsonPath: jsonPath, console: console}

	for _, p := range []string{csvPath, jsonPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	var err error
	if l.csvFile, err = os.Create(csvPath); err != nil {
		return nil, fmt.Errorf("creating %s: %w", csvPath, err)
	}
	if l.jsonFile, err = os.Create(jsonPath); err != nil {
		l.csvFile.Close()
		return nil, fmt.Errorf("creating %s: %w", jsonPath, err)
	}
	return l, nil
}

// LogEpisode appends one match row to both files
func (l *Logger) LogEpisode(stats sim.EpisodeStats) error {
	records := []sim.EpisodeStats{stats}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.csvFile); err != nil {
			return fmt.Errorf("writing episode: %w", err)
		}
		l.headerWritten = true
	} else if err := gocsv.MarshalWithoutHeaders(records, l.csvFile); err != nil {
		return fmt.Errorf("writing episode: %w", err)
	}

	line, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing episode: %w", err)
	}

	l.console.Info("match",
		"seed", stats.Seed,
		"banked", stats.Banked,
		"collected", stats.Collected,
		"ships", stats.ShipsBuilt,
		"lost", stats.ShipsLost,
		"exhausted", fmt.Sprintf("%d/%d", stats.Exhausted, stats.Decisions),
	)
	return nil
}

// LogBenchmark prints the benchmark summary
func (l *Logger) LogBenchmark(agg sim.AggregatedStats, lambda float64) {
	l.console.Info("benchmark",
		"matches", agg.NumEpisodes,
		"banked_mean", fmt.Sprintf("%.1f", agg.BankedMean),
		"banked_std", fmt.Sprintf("%.1f", agg.BankedStd),
		"banked_max", agg.BankedMax,
		"collected_mean", fmt.Sprintf("%.1f", agg.CollectedMean),
		"ships_lost_mean", agg.ShipsLostMean,
		"exhausted_rate", fmt.Sprintf("%.3f", agg.ExhaustedRate),
		"robust", fmt.Sprintf("%.1f", agg.RobustnessScore(lambda)),
	)
}

// Close closes all log files
func (l *Logger) Close() error {
	var firstErr error
	for _, f := range []*os.File{l.csvFile, l.jsonFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
