package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/config"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, uint64(200), cfg.WarmupTicks)
	assert.Equal(t, uint32(300), cfg.FeePPM)
	assert.Equal(t, uint32(5), cfg.TopKDepth)
	assert.Equal(t, uint32(256), cfg.HistoryCapacity)
	assert.Equal(t, config.SelfMatchAllow, cfg.SelfMatchPolicy)
	assert.Equal(t, config.TimeBudgetOff, cfg.TimeBudgetPolicy)
}

func TestValidateRejectsZeroTotalTicks(t *testing.T) {
	cfg := config.Default()
	cfg.TotalTicks = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadSelfMatchPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.TotalTicks = 10
	cfg.SelfMatchPolicy = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroHistoryCapacity(t *testing.T) {
	cfg := config.Default()
	cfg.TotalTicks = 10
	cfg.HistoryCapacity = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroTopKDepth(t *testing.T) {
	cfg := config.Default()
	cfg.TotalTicks = 10
	cfg.TopKDepth = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresInstructionBudgetWhenEnforced(t *testing.T) {
	cfg := config.Default()
	cfg.TotalTicks = 10
	cfg.TimeBudgetPolicy = config.TimeBudgetInstructionCount
	err := cfg.Validate()
	require.Error(t, err)

	cfg.InstructionBudget = 1000
	assert.NoError(t, cfg.Validate())
}
