// Package sim wires configuration, strategies, the round scheduler,
// and the event log into a complete run with on-disk artifacts.
package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/eventlog"
	"github.com/jeremiahvuong/figgie/internal/logger"
	"github.com/jeremiahvuong/figgie/internal/round"
	"github.com/jeremiahvuong/figgie/internal/strategy"
)

// RunResult holds the output of one round run.
type RunResult struct {
	RunID      string          `json:"run_id"`
	Config     *config.Round   `json:"config"`
	Round      *round.Result   `json:"-"`
	EventCount uint64          `json:"event_count"`
	TradeCount int             `json:"trade_count"`
	Ticks      int             `json:"ticks"`
	EndReason  round.EndReason `json:"end_reason"`
	Duration   time.Duration   `json:"wall_duration"`
	LogPath    string          `json:"log_path"`
	LogHash    string          `json:"log_hash"`
	OutputDir  string          `json:"output_dir"`
}

// Runner executes one configured round and writes its artifacts.
type Runner struct {
	cfg       *config.Round
	outputDir string
	logPath   string
}

// NewRunner creates a runner, allocating the run's output directory.
// The run id carries a random suffix so repeated runs of the same
// configuration never clobber each other.
func NewRunner(cfg *config.Round, baseOutputDir string) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runID := fmt.Sprintf("%s_seed%d_%s", cfg.Name, cfg.Seed, uuid.NewString()[:8])
	outputDir := filepath.Join(baseOutputDir, runID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Runner{
		cfg:       cfg,
		outputDir: outputDir,
		logPath:   filepath.Join(outputDir, "events.jsonl"),
	}, nil
}

// Run plays the round and writes events.jsonl, config.yaml,
// trades.json, and scoreboard.json under the run directory.
func (r *Runner) Run() (*RunResult, error) {
	log := logger.WithComponent("sim")
	startWall := time.Now()

	strats := make([]strategy.Strategy, r.cfg.NumPlayers)
	for i, kind := range r.cfg.Strategies {
		s, err := strategy.New(kind, i, r.cfg.Seed+int64(i)+1)
		if err != nil {
			return nil, err
		}
		strats[i] = s
	}

	sink, err := eventlog.NewWriter(r.logPath)
	if err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"round":   r.cfg.Name,
		"seed":    r.cfg.Seed,
		"players": r.cfg.NumPlayers,
	}).Info("round starting")

	res, err := round.Run(r.cfg, strats, sink)
	if err != nil {
		sink.Close()
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("close event log: %w", err)
	}

	hash, err := eventlog.HashFile(r.logPath)
	if err != nil {
		return nil, fmt.Errorf("hash log: %w", err)
	}

	if err := r.writeArtifacts(res); err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"goal_suit":  res.GoalSuit,
		"trades":     len(res.Trades),
		"ticks":      res.Ticks,
		"end_reason": res.EndReason,
		"log_hash":   hash[:16],
	}).Info("round finished")

	return &RunResult{
		RunID:      filepath.Base(r.outputDir),
		Config:     r.cfg,
		Round:      res,
		EventCount: sink.Count(),
		TradeCount: len(res.Trades),
		Ticks:      res.Ticks,
		EndReason:  res.EndReason,
		Duration:   time.Since(startWall),
		LogPath:    r.logPath,
		LogHash:    hash,
		OutputDir:  r.outputDir,
	}, nil
}

func (r *Runner) writeArtifacts(res *round.Result) error {
	cfgData, err := yaml.Marshal(r.cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.outputDir, "config.yaml"), cfgData, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	tradesData, _ := json.MarshalIndent(res.Trades, "", "  ")
	if err := os.WriteFile(filepath.Join(r.outputDir, "trades.json"), tradesData, 0644); err != nil {
		return fmt.Errorf("write trades: %w", err)
	}

	sbData, _ := json.MarshalIndent(res.Scoreboard, "", "  ")
	if err := os.WriteFile(filepath.Join(r.outputDir, "scoreboard.json"), sbData, 0644); err != nil {
		return fmt.Errorf("write scoreboard: %w", err)
	}

	lastRunPath := filepath.Join(filepath.Dir(r.outputDir), "last-run")
	os.WriteFile(lastRunPath, []byte(r.outputDir), 0644)
	return nil
}
