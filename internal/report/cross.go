package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/metrics"
)

// BatchResult bundles one seed's round summary.
type BatchResult struct {
	Cfg     *config.Round
	Summary *metrics.Summary
	RunDir  string
}

// BatchReport compares strategy performance across many seeds of the
// same round configuration. One round is mostly luck of the deal;
// averaging over seeds is what separates the strategies.
type BatchReport struct {
	results []BatchResult
	outDir  string
}

// NewBatchReport creates a cross-seed report.
func NewBatchReport(results []BatchResult, outDir string) *BatchReport {
	return &BatchReport{results: results, outDir: outDir}
}

// Generate writes the consolidated report and its structured data.
func (br *BatchReport) Generate() error {
	if err := os.MkdirAll(br.outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	reportPath := filepath.Join(br.outDir, "batch-report.md")
	if err := os.WriteFile(reportPath, []byte(br.renderMarkdown()), 0644); err != nil {
		return fmt.Errorf("write batch report: %w", err)
	}

	dataPath := filepath.Join(br.outDir, "batch-metrics.json")
	data, _ := json.MarshalIndent(br.buildSummary(), "", "  ")
	return os.WriteFile(dataPath, data, 0644)
}

// StrategyAverages aggregates one strategy kind's results over a batch.
type StrategyAverages struct {
	Strategy  string  `json:"strategy"`
	Seats     int     `json:"seats"` // player-rounds played
	AvgPayout float64 `json:"avg_payout"`
	AvgTrades float64 `json:"avg_trades"`
	AvgGoal   float64 `json:"avg_goal_held"`
}

func (br *BatchReport) buildSummary() []StrategyAverages {
	type accum struct {
		seats  int
		payout int64
		trades int
		goal   int
	}
	byKind := make(map[string]*accum)
	var order []string

	for _, res := range br.results {
		for _, p := range res.Summary.Players {
			kind := "?"
			if p.Player < len(res.Cfg.Strategies) {
				kind = res.Cfg.Strategies[p.Player]
			}
			a, ok := byKind[kind]
			if !ok {
				a = &accum{}
				byKind[kind] = a
				order = append(order, kind)
			}
			a.seats++
			a.payout += p.Payout
			a.trades += p.Buys + p.Sells
			a.goal += p.FinalHand[res.Summary.GoalSuit]
		}
	}

	out := make([]StrategyAverages, 0, len(order))
	for _, kind := range order {
		a := byKind[kind]
		out = append(out, StrategyAverages{
			Strategy:  kind,
			Seats:     a.seats,
			AvgPayout: float64(a.payout) / float64(a.seats),
			AvgTrades: float64(a.trades) / float64(a.seats),
			AvgGoal:   float64(a.goal) / float64(a.seats),
		})
	}
	return out
}

func (br *BatchReport) renderMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# Figgie Batch Report\n\n")
	sb.WriteString(fmt.Sprintf("Rounds: %d\n\n", len(br.results)))

	sb.WriteString("| Strategy | Seats | Avg Payout | Avg Trades | Avg Goal Held |\n")
	sb.WriteString("|----------|-------|------------|------------|---------------|\n")
	for _, s := range br.buildSummary() {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f | %.1f | %.1f |\n",
			s.Strategy, s.Seats, s.AvgPayout, s.AvgTrades, s.AvgGoal))
	}
	sb.WriteString("\n## Rounds\n\n")
	sb.WriteString("| Seed | Goal Suit | Trades | Dir |\n")
	sb.WriteString("|------|-----------|--------|-----|\n")
	for _, res := range br.results {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %s |\n",
			res.Cfg.Seed, res.Summary.GoalSuit, res.Summary.TradeCount, filepath.Base(res.RunDir)))
	}
	return sb.String()
}
