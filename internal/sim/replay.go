package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"haliteai/internal/config"
)

// Replay stores a deterministic command trace for playback
type Replay struct {
	Seed       int64            `json:"seed"`
	Config     config.SimConfig `json:"config"`
	Turns      []TurnRecord     `json:"turns"`
	FinalStats EpisodeStats     `json:"final_stats"`
}

// TurnRecord is everything the bot sent in one turn
type TurnRecord struct {
	Commands []Command `json:"commands"`
	Spawn    bool      `json:"spawn,omitempty"`
}

// NewReplay creates a new replay recorder
func NewReplay(seed int64, cfg config.SimConfig) *Replay {
	return &Replay{
		Seed:   seed,
		Config: cfg,
		Turns:  make([]TurnRecord, 0, cfg.Turns),
	}
}

// Record adds one turn to the replay
func (r *Replay) Record(cmds []Command, spawn bool) {
	r.Turns = append(r.Turns, TurnRecord{Commands: cmds, Spawn: spawn})
}

// SetFinalStats sets the final match statistics
func (r *Replay) SetFinalStats(stats EpisodeStats) {
	r.FinalStats = stats
}

// Save writes the replay as zstd-compressed JSON
func (r *Replay) Save(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(r); err != nil {
		enc.Close()
		return fmt.Errorf("encode replay: %w", err)
	}
	return enc.Close()
}

// LoadReplay loads a replay written by Save
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var r Replay
	if err := json.NewDecoder(dec).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode replay %s: %w", path, err)
	}
	return &r, nil
}

// Playback recreates the match from its seed
func (r *Replay) Playback() (*Game, error) {
	return NewGame(r.Config, r.Seed)
}

// PlaybackStep applies the recorded turns up to step n
func (r *Replay) PlaybackStep(g *Game, step int) error {
	if step > len(r.Turns) {
		step = len(r.Turns)
	}
	for i := g.Turn; i < step && !g.Over; i++ {
		t := r.Turns[i]
		if err := g.Step(t.Commands, t.Spawn); err != nil {
			return err
		}
	}
	return nil
}
