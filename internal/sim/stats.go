package sim

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EpisodeStats captures all metrics from a single match
type EpisodeStats struct {
	Seed       int64 `json:"seed" csv:"seed"`
	Turns      int   `json:"turns" csv:"turns"`
	Banked     int   `json:"banked" csv:"banked"`
	Collected  int   `json:"collected" csv:"collected"`
	Deposited  int   `json:"deposited" csv:"deposited"`
	Spent      int   `json:"spent" csv:"spent"`
	ShipsBuilt int   `json:"ships_built" csv:"ships_built"`
	ShipsLost  int   `json:"ships_lost" csv:"ships_lost"`

	// Planner counters
	Decisions       int     `json:"decisions" csv:"decisions"`
	Exhausted       int     `json:"exhausted" csv:"exhausted"`         // searches that hit the generation cap
	Failures        int     `json:"failures" csv:"failures"`           // planner errors, ship held still
	MeanGenerations float64 `json:"mean_generations" csv:"mean_generations"`
}

// AggregatedStats holds statistics across multiple matches
type AggregatedStats struct {
	BankedMean    float64
	BankedStd     float64
	BankedMax     float64
	CollectedMean float64
	ShipsLostMean float64
	ExhaustedRate float64 // exhausted searches per decision
	NumEpisodes   int
}

// Aggregate computes statistics from multiple match stats
func Aggregate(episodes []EpisodeStats) AggregatedStats {
	n := len(episodes)
	if n == 0 {
		return AggregatedStats{}
	}

	banked := make([]float64, n)
	collected := make([]float64, n)
	lost := make([]float64, n)
	var decisions, exhausted int
	for i, ep := range episodes {
		banked[i] = float64(ep.Banked)
		collected[i] = float64(ep.Collected)
		lost[i] = float64(ep.ShipsLost)
		decisions += ep.Decisions
		exhausted += ep.Exhausted
	}

	agg := AggregatedStats{NumEpisodes: n}
	agg.BankedMean, agg.BankedStd = stat.MeanStdDev(banked, nil)
	if n == 1 {
		agg.BankedStd = 0
	}
	agg.BankedMax = floats.Max(banked)
	agg.CollectedMean = stat.Mean(collected, nil)
	agg.ShipsLostMean = stat.Mean(lost, nil)
	if decisions > 0 {
		agg.ExhaustedRate = float64(exhausted) / float64(decisions)
	}
	return agg
}

// RobustnessScore ranks configurations: mean banked minus lambda std
func (a AggregatedStats) RobustnessScore(lambda float64) float64 {
	return a.BankedMean - lambda*a.BankedStd
}
