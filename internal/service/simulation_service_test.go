package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository/memory"
	"github.com/lalaji/replenish/internal/simulation"
)

func newSimulationService(store *memory.Store, autoApply bool) *SimulationService {
	loader := simulation.NewLoader(store, store)
	engine := simulation.NewEngine(nil, rand.New(rand.NewSource(7)))
	applier := simulation.NewApplier(store)
	return NewSimulationService(loader, engine, applier, store, nil, 30, autoApply)
}

func TestRunRejectsUnknownScenario(t *testing.T) {
	svc := newSimulationService(memory.NewSeeded(), false)

	_, err := svc.Run(context.Background(), "teleportation")
	require.ErrorIs(t, err, simulation.ErrUnknownScenario)
}

func TestRunWithoutAutoApplyLeavesStateUntouched(t *testing.T) {
	store := memory.NewSeeded()
	before, err := store.ListProducts(context.Background())
	require.NoError(t, err)

	svc := newSimulationService(store, false)
	outcome, err := svc.Run(context.Background(), domain.ScenarioStockout)
	require.NoError(t, err)

	require.NotNil(t, outcome.Result.Stockout)
	assert.Nil(t, outcome.Applied)

	after, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunWithAutoApplyReportsMutations(t *testing.T) {
	store := memory.NewSeeded()
	svc := newSimulationService(store, true)

	outcome, err := svc.Run(context.Background(), domain.ScenarioReordering)
	require.NoError(t, err)

	require.NotNil(t, outcome.Result.Reordering)
	require.NotNil(t, outcome.Applied)
	assert.Equal(t, domain.ScenarioReordering, outcome.Applied.Scenario)
	assert.Empty(t, outcome.Applied.Failed)

	// every committed mutation must be visible in storage
	for _, m := range outcome.Applied.Applied {
		p, err := store.GetProductByID(context.Background(), m.ProductID)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
}

func TestRunAllScenarios(t *testing.T) {
	scenarios := []string{
		domain.ScenarioSeasonal, domain.ScenarioStockout, domain.ScenarioPricing,
		domain.ScenarioReordering, domain.ScenarioExpiry, domain.ScenarioSales,
		domain.ScenarioRestructure,
	}

	for _, scenario := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			svc := newSimulationService(memory.NewSeeded(), true)

			outcome, err := svc.Run(context.Background(), scenario)
			require.NoError(t, err)
			assert.Equal(t, scenario, outcome.Result.Type)
			require.NotNil(t, outcome.Applied)
			assert.Empty(t, outcome.Applied.Failed)
		})
	}
}
