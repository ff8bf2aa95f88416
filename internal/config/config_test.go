package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "replenish", cfg.Database.DBName)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30, cfg.Simulation.LookbackDays)
	assert.True(t, cfg.Simulation.AutoApply)
	assert.Equal(t, "heuristic", cfg.Simulation.DemandModel)
}

func TestLoadIsSingleton(t *testing.T) {
	assert.Same(t, Load(), Load())
}
