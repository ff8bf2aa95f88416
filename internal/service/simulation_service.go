package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lalaji/replenish/internal/cache"
	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
	"github.com/lalaji/replenish/internal/simulation"
)

// SimulationService runs scenario simulations against a fresh snapshot and,
// when auto-apply is on, commits the recommended adjustments per product.
type SimulationService struct {
	loader    *simulation.Loader
	engine    *simulation.Engine
	applier   *simulation.Applier
	stores    repository.StoreRepository
	cache     cache.StatsCache
	lookback  int
	autoApply bool
}

func NewSimulationService(
	loader *simulation.Loader,
	engine *simulation.Engine,
	applier *simulation.Applier,
	stores repository.StoreRepository,
	statsCache cache.StatsCache,
	lookbackDays int,
	autoApply bool,
) *SimulationService {
	if statsCache == nil {
		statsCache = cache.NewNoopStatsCache()
	}
	return &SimulationService{
		loader:    loader,
		engine:    engine,
		applier:   applier,
		stores:    stores,
		cache:     statsCache,
		lookback:  lookbackDays,
		autoApply: autoApply,
	}
}

// SimulationOutcome bundles the scenario result with the mutation report.
type SimulationOutcome struct {
	Result  *domain.SimulationResult `json:"result"`
	Applied *domain.ApplyReport      `json:"applied,omitempty"`
}

// Run executes one scenario: snapshot read, algorithm, optional mutation
// pass. Concurrent runs each read their own snapshot; only the per-product
// write is atomic, so results may be stale relative to another run's
// mutations.
func (s *SimulationService) Run(ctx context.Context, scenarioType string) (*SimulationOutcome, error) {
	store, err := s.activeStore(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.loader.Load(ctx, s.lookback)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	result, err := s.engine.Run(scenarioType, snap, store)
	if err != nil {
		return nil, err
	}

	outcome := &SimulationOutcome{Result: result}

	if s.autoApply {
		outcome.Applied = s.applier.Apply(ctx, result, snap)
		if len(outcome.Applied.Applied) > 0 {
			if err := s.cache.Invalidate(ctx); err != nil {
				log.Warn().Err(err).Msg("stats cache invalidation failed")
			}
		}
	}

	log.Info().
		Str("scenario", scenarioType).
		Int("products", len(snap.Products)).
		Msg("simulation completed")

	return outcome, nil
}

func (s *SimulationService) activeStore(ctx context.Context) (domain.Store, error) {
	store, err := s.stores.GetActiveStore(ctx)
	if err != nil {
		return domain.Store{}, fmt.Errorf("resolving active store: %w", err)
	}
	return *store, nil
}
