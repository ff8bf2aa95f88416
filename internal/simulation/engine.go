package simulation

import (
	"errors"
	"math/rand"
	"time"

	"github.com/lalaji/replenish/internal/domain"
)

// ErrUnknownScenario is returned for a scenario tag outside the seven
// supported ones.
var ErrUnknownScenario = errors.New("Unknown simulation type")

// Engine runs the seven scenario algorithms over a snapshot. Each run is
// synchronous and executes to completion; the engine holds no state between
// invocations beyond its estimator and randomness source.
type Engine struct {
	demand DemandEstimator
	rng    *rand.Rand
	now    func() time.Time
}

// NewEngine builds an engine with the given demand estimator and randomness
// source. rng may be nil, in which case a time-seeded source is used; tests
// pass a fixed seed to make the sales scenario deterministic.
func NewEngine(demand DemandEstimator, rng *rand.Rand) *Engine {
	if demand == nil {
		demand = NewHeuristicEstimator()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		demand: demand,
		rng:    rng,
		now:    time.Now,
	}
}

// Run dispatches to the scenario algorithm for the given tag.
func (e *Engine) Run(scenarioType string, snap *Snapshot, store domain.Store) (*domain.SimulationResult, error) {
	if snap == nil {
		snap = &Snapshot{}
	}

	result := &domain.SimulationResult{Type: scenarioType}

	switch scenarioType {
	case domain.ScenarioSeasonal:
		result.Seasonal = e.runSeasonal(snap, store)
	case domain.ScenarioStockout:
		result.Stockout = e.runStockout(snap, store)
	case domain.ScenarioPricing:
		result.Pricing = e.runPricing(snap, store)
	case domain.ScenarioReordering:
		result.Reordering = e.runReordering(snap, store)
	case domain.ScenarioExpiry:
		result.Expiry = e.runExpiry(snap, store)
	case domain.ScenarioSales:
		result.Sales = e.runSales(snap, store)
	case domain.ScenarioRestructure:
		result.Restructure = e.runRestructure(snap, store)
	default:
		return nil, ErrUnknownScenario
	}

	return result, nil
}
