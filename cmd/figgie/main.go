package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeremiahvuong/figgie/internal/config"
	"github.com/jeremiahvuong/figgie/internal/domain"
	"github.com/jeremiahvuong/figgie/internal/eventlog"
	"github.com/jeremiahvuong/figgie/internal/logger"
	"github.com/jeremiahvuong/figgie/internal/metrics"
	"github.com/jeremiahvuong/figgie/internal/report"
	"github.com/jeremiahvuong/figgie/internal/sim"
	"github.com/jeremiahvuong/figgie/internal/strategy"
)

const defaultRunsDir = "runs"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if path := os.Getenv("LOG_FILE"); path != "" {
		logger.ToFile(path)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "batch":
		cmdBatch(os.Args[2:])
	case "replay":
		cmdReplay(os.Args[2:])
	case "presets":
		cmdPresets()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func cmdRun(args []string) {
	presetName := ""
	configPath := ""
	seed := int64(42)
	outDir := defaultRunsDir

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--preset":
			i++
			if i < len(args) {
				presetName = args[i]
			}
		case "--config":
			i++
			if i < len(args) {
				configPath = args[i]
			}
		case "--seed":
			i++
			if i < len(args) {
				fmt.Sscanf(args[i], "%d", &seed)
			}
		case "--out":
			i++
			if i < len(args) {
				outDir = args[i]
			}
		}
	}

	cfg := loadConfig(presetName, configPath, seed)
	res := runOne(cfg, outDir)

	summary := summarize(res.LogPath)
	report.PrintSummary(cfg, summary)
	if err := report.NewReport(cfg, summary, res.OutputDir).Generate(); err != nil {
		fatal("could not write report: %v", err)
	}

	fmt.Printf("\nRun complete: %s\n", res.OutputDir)
	fmt.Printf("Events: %d | Log hash: %s...\n", res.EventCount, res.LogHash[:16])
}

func cmdBatch(args []string) {
	presetName := "classic"
	configPath := ""
	seed := int64(42)
	rounds := 10
	outDir := defaultRunsDir

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--preset":
			i++
			if i < len(args) {
				presetName = args[i]
			}
		case "--config":
			i++
			if i < len(args) {
				configPath = args[i]
			}
		case "--seed":
			i++
			if i < len(args) {
				fmt.Sscanf(args[i], "%d", &seed)
			}
		case "--rounds":
			i++
			if i < len(args) {
				fmt.Sscanf(args[i], "%d", &rounds)
			}
		case "--out":
			i++
			if i < len(args) {
				outDir = args[i]
			}
		}
	}

	var results []report.BatchResult
	for n := 0; n < rounds; n++ {
		cfg := loadConfig(presetName, configPath, seed+int64(n))
		res := runOne(cfg, outDir)
		results = append(results, report.BatchResult{
			Cfg:     cfg,
			Summary: summarize(res.LogPath),
			RunDir:  res.OutputDir,
		})
	}

	if err := report.NewBatchReport(results, outDir).Generate(); err != nil {
		fatal("could not write batch report: %v", err)
	}
	fmt.Printf("Batch complete: %d rounds, report in %s\n", rounds, outDir)
}

func cmdReplay(args []string) {
	runDir := ""
	logPath := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--run-dir":
			i++
			if i < len(args) {
				runDir = args[i]
			}
		case "--log":
			i++
			if i < len(args) {
				logPath = args[i]
			}
		}
	}
	if logPath == "" && runDir != "" {
		logPath = runDir + "/events.jsonl"
	}
	if logPath == "" {
		fatal("--run-dir or --log required")
	}

	fmt.Printf("Replaying event log: %s\n", logPath)
	events, err := readLog(logPath)
	if err != nil {
		fatal("could not read event log: %v", err)
	}
	if err := metrics.Verify(events); err != nil {
		fatal("replay verification failed: %v", err)
	}
	summary, err := metrics.ComputeFromEvents(events)
	if err != nil {
		fatal("could not recompute metrics: %v", err)
	}

	hash, err := eventlog.HashFile(logPath)
	if err != nil {
		fatal("could not hash log: %v", err)
	}

	fmt.Printf("Replayed settlement matches the log.\n")
	fmt.Printf("Goal suit %s, %d trades, pot %d. Log hash: %s...\n",
		summary.GoalSuit, summary.TradeCount, summary.Pot, hash[:16])
	for _, p := range summary.Players {
		fmt.Printf("  player %d: payout %d (cash %d, %d goal cards)\n",
			p.Player, p.Payout, p.FinalCash, p.FinalHand[summary.GoalSuit])
	}
}

func cmdPresets() {
	fmt.Println("Presets:")
	for _, name := range config.PresetNames() {
		cfg := config.GetPreset(name, 42)
		fmt.Printf("  %-12s %d players, %d ticks, pot %d, strategies: %s\n",
			name, cfg.NumPlayers, cfg.DurationTicks, cfg.TotalPot(),
			strings.Join(cfg.Strategies, ", "))
	}
	fmt.Printf("\nStrategy kinds: %s\n", strings.Join(strategy.Kinds(), ", "))
}

func loadConfig(presetName, configPath string, seed int64) *config.Round {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			fatal("%v", err)
		}
		return cfg
	}
	if presetName == "" {
		fatal("--preset or --config required (see 'figgie presets')")
	}
	cfg := config.GetPreset(presetName, seed)
	if cfg == nil {
		fatal("unknown preset %q", presetName)
	}
	return cfg
}

func runOne(cfg *config.Round, outDir string) *sim.RunResult {
	runner, err := sim.NewRunner(cfg, outDir)
	if err != nil {
		fatal("%v", err)
	}
	res, err := runner.Run()
	if err != nil {
		fatal("round failed: %v", err)
	}
	return res
}

func summarize(logPath string) *metrics.Summary {
	events, err := readLog(logPath)
	if err != nil {
		fatal("could not read event log: %v", err)
	}
	summary, err := metrics.ComputeFromEvents(events)
	if err != nil {
		fatal("could not compute metrics: %v", err)
	}
	return summary
}

func readLog(logPath string) ([]*domain.Event, error) {
	reader, err := eventlog.NewReader(logPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.ReadAll()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`Usage: figgie <command> [options]

Commands:
  run      Play one round and write its artifacts
  batch    Play many rounds across consecutive seeds
  replay   Recompute a round from its event log and verify it
  presets  List round presets and strategy kinds

Run options:
  --preset <name>   Round preset (see 'figgie presets')
  --config <path>   YAML round configuration (overrides --preset)
  --seed <n>        Random seed (default: 42)
  --out <dir>       Output directory (default: runs)

Batch options:
  --preset <name>   Round preset (default: classic)
  --config <path>   YAML round configuration
  --seed <n>        First seed; round k uses seed+k (default: 42)
  --rounds <n>      Number of rounds (default: 10)
  --out <dir>       Output directory (default: runs)

Replay options:
  --run-dir <path>  Path to a run directory
  --log <path>      Path to an event log (events.jsonl)

Environment:
  LOG_LEVEL         debug, info, warn, error (default: info)
  LOG_FILE          redirect logs to a rotating file`)
}
