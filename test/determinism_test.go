package test

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/report"
	"github.com/jeremiahvuong/figgie/internal/sim"
)

// TestDeterminism verifies that the same preset and seed produce
// identical event logs, scoreboards, and reports across two runs.
func TestDeterminism(t *testing.T) {
	for _, name := range config.PresetNames() {
		t.Run(name, func(t *testing.T) {
			seed := int64(12345)

			result1 := runPreset(t, name, seed)
			result2 := runPreset(t, name, seed)

			if result1.EventCount != result2.EventCount {
				t.Errorf("event count mismatch: %d vs %d",
					result1.EventCount, result2.EventCount)
			}
			if result1.TradeCount != result2.TradeCount {
				t.Errorf("trade count mismatch: %d vs %d",
					result1.TradeCount, result2.TradeCount)
			}
			if result1.LogHash != result2.LogHash {
				t.Errorf("log hash mismatch:\n  run1: %s\n  run2: %s",
					result1.LogHash, result2.LogHash)
			}

			sb1 := result1.Round.Scoreboard
			sb2 := result2.Round.Scoreboard
			if sb1.GoalSuit != sb2.GoalSuit {
				t.Errorf("goal suit mismatch: %s vs %s", sb1.GoalSuit, sb2.GoalSuit)
			}
			for p := range sb1.Payouts {
				if sb1.Payouts[p] != sb2.Payouts[p] {
					t.Errorf("player %d payout mismatch: %d vs %d",
						p, sb1.Payouts[p], sb2.Payouts[p])
				}
			}

			// Scoreboard artifacts must be byte-identical too.
			hash1 := hashFileT(t, filepath.Join(result1.OutputDir, "scoreboard.json"))
			hash2 := hashFileT(t, filepath.Join(result2.OutputDir, "scoreboard.json"))
			if hash1 != hash2 {
				t.Errorf("scoreboard.json hash mismatch:\n  run1: %s\n  run2: %s", hash1, hash2)
			}
		})
	}
}

// TestDifferentSeedsDiverge checks that the seed actually drives the
// round: two seeds must not produce the same log.
func TestDifferentSeedsDiverge(t *testing.T) {
	result1 := runPreset(t, "classic", 1)
	result2 := runPreset(t, "classic", 2)

	if result1.LogHash == result2.LogHash {
		t.Error("different seeds produced identical event logs")
	}
}

// TestReportDeterminism verifies that report generation is itself
// reproducible from the same run artifacts.
func TestReportDeterminism(t *testing.T) {
	seed := int64(999)

	result1 := runPreset(t, "quick", seed)
	result2 := runPreset(t, "quick", seed)

	for _, res := range []*sim.RunResult{result1, result2} {
		summary := summarizeLog(t, res.LogPath)
		if err := report.NewReport(res.Config, summary, res.OutputDir).Generate(); err != nil {
			t.Fatalf("report gen: %v", err)
		}
	}

	hash1 := hashFileT(t, filepath.Join(result1.OutputDir, "report.md"))
	hash2 := hashFileT(t, filepath.Join(result2.OutputDir, "report.md"))
	if hash1 != hash2 {
		t.Errorf("report.md hash mismatch:\n  run1: %s\n  run2: %s", hash1, hash2)
	}
}

func runPreset(t *testing.T, name string, seed int64) *sim.RunResult {
	t.Helper()
	cfg := config.GetPreset(name, seed)
	if cfg == nil {
		t.Fatalf("unknown preset %q", name)
	}
	runner, err := sim.NewRunner(cfg, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func hashFileT(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
