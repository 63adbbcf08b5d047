// Package config defines the session configuration for a simulation run.
// Config is loaded from a YAML file with defaults applied before
// unmarshal and validated immediately after, the same shape as
// polymarket-mm's loader.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// TimeBudgetPolicy governs whether a per-agent decision budget is enforced,
// and if so, by what unit. Wall-clock enforcement is explicitly disallowed
// as the default because it breaks the determinism guarantee (O1-O3).
type TimeBudgetPolicy string

const (
	TimeBudgetOff             TimeBudgetPolicy = "off"
	TimeBudgetInstructionCount TimeBudgetPolicy = "instruction_count"
)

// SelfMatchPolicy mirrors engine.SelfMatchPolicy at the config boundary so
// this package never imports internal/engine.
type SelfMatchPolicy string

const (
	SelfMatchAllow SelfMatchPolicy = "allow"
	SelfMatchSkip  SelfMatchPolicy = "skip"
)

// AgentConfig is one agent's static setup for the session: its script
// handle (opaque to this package), and its starting account state.
type AgentConfig struct {
	Script       string  `mapstructure:"script"`
	InitialCash  float64 `mapstructure:"initial_cash"`
	InitialStock int64   `mapstructure:"initial_stock"`
}

// SessionConfig is the single configuration record spec §6 describes.
type SessionConfig struct {
	SessionSeed   uint64 `mapstructure:"session_seed"`
	TotalTicks    uint64 `mapstructure:"total_ticks"`
	WarmupTicks   uint64 `mapstructure:"warmup_ticks"`
	FeePPM        uint32 `mapstructure:"fee_ppm"`
	TopKDepth     uint32 `mapstructure:"top_k_depth"`
	HistoryCapacity uint32 `mapstructure:"history_capacity"`

	SelfMatchPolicy   SelfMatchPolicy  `mapstructure:"self_match_policy"`
	TimeBudgetPolicy  TimeBudgetPolicy `mapstructure:"time_budget_policy"`
	InstructionBudget uint64           `mapstructure:"instruction_budget"`

	WorkerPoolSize int `mapstructure:"worker_pool_size"`

	Agents []AgentConfig `mapstructure:"agents"`

	EventLogPath string `mapstructure:"event_log_path"`
}

// setDefaults applies spec §6's documented defaults before Unmarshal, so a
// YAML file only needs to override what differs from the baseline.
func setDefaults(v *viper.Viper) {
	v.SetDefault("warmup_ticks", 200)
	v.SetDefault("fee_ppm", 300)
	v.SetDefault("top_k_depth", 5)
	v.SetDefault("history_capacity", 256)
	v.SetDefault("self_match_policy", string(SelfMatchAllow))
	v.SetDefault("time_budget_policy", string(TimeBudgetOff))
	v.SetDefault("worker_pool_size", 0) // 0 means "logical cores", resolved when the session runs
}

// Load reads a SessionConfig from a YAML file, applying spec defaults
// before unmarshal and validating the result.
func Load(path string) (*SessionConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg SessionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns a SessionConfig populated with spec-documented defaults
// and no agents, for programmatic construction (tests, the CLI's
// flag-driven path) without a backing file.
func Default() SessionConfig {
	v := viper.New()
	setDefaults(v)
	var cfg SessionConfig
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate checks required fields and value ranges.
func (c *SessionConfig) Validate() error {
	if c.TotalTicks == 0 {
		return fmt.Errorf("total_ticks must be > 0")
	}
	if c.HistoryCapacity == 0 {
		return fmt.Errorf("history_capacity must be > 0")
	}
	if c.TopKDepth == 0 {
		return fmt.Errorf("top_k_depth must be > 0")
	}
	switch c.SelfMatchPolicy {
	case SelfMatchAllow, SelfMatchSkip, "":
	default:
		return fmt.Errorf("self_match_policy must be one of: allow, skip")
	}
	switch c.TimeBudgetPolicy {
	case TimeBudgetOff, TimeBudgetInstructionCount, "":
	default:
		return fmt.Errorf("time_budget_policy must be one of: off, instruction_count")
	}
	if c.TimeBudgetPolicy == TimeBudgetInstructionCount && c.InstructionBudget == 0 {
		return fmt.Errorf("instruction_budget must be > 0 when time_budget_policy is instruction_count")
	}
	for i, a := range c.Agents {
		if a.InitialCash < 0 {
			return fmt.Errorf("agents[%d].initial_cash must be >= 0", i)
		}
	}
	return nil
}
