// Command fenrirsim runs one deterministic simulation session and prints
// the resulting SessionReport. It replaces the teacher's cmd/server and
// cmd/client TCP tools: there is no network surface here, only a
// config-in, report-out CLI (spec §1 treats the CLI as an external
// collaborator, out of scope for the core's design).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"fenrir/internal/config"
	"fenrir/internal/eventlog"
	"fenrir/internal/scheduler"
	"fenrir/internal/script"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a session config YAML file")
	ticks := pflag.Uint64("ticks", 1000, "total ticks, used when -config is not given")
	seed := pflag.Uint64("seed", 1, "session seed, used when -config is not given")
	eventLogPath := pflag.StringP("event-log", "e", "", "optional path to write the NDJSON event log")
	agentCount := pflag.Int("agents", 2, "number of built-in crossing agents, used when -config is not given")
	pflag.Parse()

	cfg, err := loadConfig(*configPath, *ticks, *seed, *agentCount)
	if err != nil {
		log.Fatalf("fenrirsim: %v", err)
	}
	if *eventLogPath != "" {
		cfg.EventLogPath = *eventLogPath
	}

	agents := make([]script.Agent, len(cfg.Agents))
	for i := range agents {
		agents[i] = builtinAgent(i)
	}

	var writer *eventlog.Writer
	if cfg.EventLogPath != "" {
		w, err := eventlog.Open(afero.NewOsFs(), cfg.EventLogPath)
		if err != nil {
			log.Fatalf("fenrirsim: open event log: %v", err)
		}
		writer = w
	}

	report, err := scheduler.RunSession(*cfg, agents, writer)
	if err != nil {
		log.Fatalf("fenrirsim: %v", err)
	}

	printReport(report)
}

// loadConfig reads a SessionConfig from path when given, otherwise builds
// one programmatically from the flag-driven fallback path, grounded on
// internal/config's Default-then-override shape.
func loadConfig(path string, ticks, seed uint64, agentCount int) (*config.SessionConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	if agentCount < 2 {
		agentCount = 2
	}
	cfg := config.Default()
	cfg.TotalTicks = ticks
	cfg.SessionSeed = seed
	cfg.Agents = make([]config.AgentConfig, agentCount)
	for i := range cfg.Agents {
		cfg.Agents[i] = config.AgentConfig{InitialCash: 10_000, InitialStock: 0}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return &cfg, nil
}

// builtinAgent alternates two trivial scripted strategies (buy-side and
// sell-side crossers at a fixed price) so a config with no real script
// binding still produces trading activity end to end.
func builtinAgent(i int) script.Agent {
	if i%2 == 0 {
		return script.ScriptedAgentFunc(func(m script.MarketView, a script.AccountView) []script.Decision {
			return []script.Decision{{Action: script.Buy, OrderType: script.Limit, Price: 100.0, Amount: 1}}
		})
	}
	return script.ScriptedAgentFunc(func(m script.MarketView, a script.AccountView) []script.Decision {
		return []script.Decision{{Action: script.Sell, OrderType: script.Limit, Price: 100.0, Amount: 1}}
	})
}

func printReport(r *scheduler.SessionReport) {
	fmt.Printf("run_id: %s\n", r.RunID)
	fmt.Printf("event_log_hash: %x\n", r.EventLogHash)
	fmt.Printf("ticks: %d\n", len(r.PerTickEventCounts))
	fmt.Printf("tainted: %v\n", r.Tainted)
	for _, reason := range r.TaintReasons {
		fmt.Printf("  taint: %s\n", reason)
	}
	for id, count := range r.BudgetExceededCounts {
		fmt.Printf("agent %d exceeded its instruction budget on %d ticks\n", id, count)
	}
	for i, a := range r.FinalAccounts {
		fmt.Printf("agent %d: cash=%.2f stock=%d realized=%.2f equity=%.2f\n",
			i, a.Cash, a.Stock, a.RealizedPnL, a.Equity)
	}
	os.Exit(0)
}
