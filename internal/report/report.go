// Package report renders round results as markdown artifacts and
// console summaries.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/metrics"
)

// Report writes the per-round artifacts: metrics.json and report.md.
type Report struct {
	cfg     *config.Round
	summary *metrics.Summary
	outDir  string
}

// NewReport creates a report generator for one finished round.
func NewReport(cfg *config.Round, summary *metrics.Summary, outDir string) *Report {
	return &Report{cfg: cfg, summary: summary, outDir: outDir}
}

// Generate produces the full report.
func (r *Report) Generate() error {
	metricsPath := filepath.Join(r.outDir, "metrics.json")
	metricsData, _ := json.MarshalIndent(r.summary, "", "  ")
	if err := os.WriteFile(metricsPath, metricsData, 0644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	reportPath := filepath.Join(r.outDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(r.renderMarkdown()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *Report) renderMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# Figgie Round Report\n\n")
	sb.WriteString(fmt.Sprintf("**Round:** %s | **Seed:** %d\n\n", r.cfg.Name, r.cfg.Seed))

	sb.WriteString("## Round Configuration\n\n")
	sb.WriteString("| Players | Ticks | Pot | Per Card | Max Price |\n")
	sb.WriteString("|---------|-------|-----|----------|-----------|\n")
	sb.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d |\n\n",
		r.cfg.NumPlayers, r.cfg.DurationTicks, r.summary.Pot, r.summary.PerCard, r.cfg.MaxPrice))

	sb.WriteString(fmt.Sprintf("**Goal suit:** %s | **Trades:** %d\n\n",
		r.summary.GoalSuit, r.summary.TradeCount))

	sb.WriteString("## Players\n\n")
	sb.WriteString("| Player | Strategy | Buys | Sells | Goal Bought | Goal Sold | Rejections | Final Cash | Payout |\n")
	sb.WriteString("|--------|----------|------|-------|-------------|-----------|------------|------------|--------|\n")
	for _, p := range r.summary.Players {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %d | %d | %d | %d | %d |\n",
			p.Player, r.strategyName(p.Player), p.Buys, p.Sells,
			p.GoalBought, p.GoalSold, p.Rejections, p.FinalCash, p.Payout))
	}
	sb.WriteString("\n")

	if len(r.summary.Rejections) > 0 {
		sb.WriteString("## Rejections\n\n")
		sb.WriteString("| Reason | Count |\n|--------|-------|\n")
		for _, reason := range sortedKeys(r.summary.Rejections) {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", reason, r.summary.Rejections[reason]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Report) strategyName(player int) string {
	if player < len(r.cfg.Strategies) {
		return r.cfg.Strategies[player]
	}
	return "?"
}

// PrintSummary writes a console table of the round's outcome.
func PrintSummary(cfg *config.Round, summary *metrics.Summary) {
	fmt.Printf("Round %s seed %d: goal suit %s, %d trades, pot %d (%d per card)\n",
		cfg.Name, cfg.Seed, summary.GoalSuit, summary.TradeCount, summary.Pot, summary.PerCard)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "player\tstrategy\tbuys\tsells\tgoal held\tcash\tpayout")
	for _, p := range summary.Players {
		name := "?"
		if p.Player < len(cfg.Strategies) {
			name = cfg.Strategies[p.Player]
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			p.Player, name, p.Buys, p.Sells,
			p.FinalHand[summary.GoalSuit], p.FinalCash, p.Payout)
	}
	w.Flush()
}

func sortedKeys(m metrics.RejectionCounts) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
