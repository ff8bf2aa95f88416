package simulation

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

// Applier translates a scenario's recommendations into committed state
// changes. Each mutation is atomically scoped to a single product; there is
// no cross-product transaction. If a run is interrupted partway, products
// already walked stay mutated and the report shows the partial outcome.
type Applier struct {
	products repository.ProductRepository
}

func NewApplier(products repository.ProductRepository) *Applier {
	return &Applier{products: products}
}

// Apply walks the per-product results of the scenario and issues quantity
// deltas or price replacements. A failure on one product is recorded and the
// walk continues; it never aborts the batch.
func (a *Applier) Apply(ctx context.Context, result *domain.SimulationResult, snap *Snapshot) *domain.ApplyReport {
	report := &domain.ApplyReport{
		Scenario: result.Type,
		Applied:  []domain.Mutation{},
		Failed:   []domain.MutationFailure{},
	}

	switch {
	case result.Seasonal != nil:
		a.applySeasonal(ctx, result.Seasonal, snap, report)
	case result.Stockout != nil:
		a.applyStockout(ctx, result.Stockout, snap, report)
	case result.Pricing != nil:
		a.applyPricing(ctx, result.Pricing, report)
	case result.Reordering != nil:
		a.applyReordering(ctx, result.Reordering, report)
	case result.Expiry != nil:
		a.applyExpiry(ctx, result.Expiry, snap, report)
	case result.Sales != nil:
		a.applySales(ctx, result.Sales, snap, report)
	case result.Restructure != nil:
		a.applyRestructure(ctx, result.Restructure, report)
	}

	log.Info().
		Str("scenario", report.Scenario).
		Int("applied", len(report.Applied)).
		Int("failed", len(report.Failed)).
		Msg("simulation mutations applied")

	return report
}

func (a *Applier) adjust(ctx context.Context, id int64, name string, delta int, reason string, report *domain.ApplyReport) {
	if delta == 0 {
		return
	}
	if err := a.products.AdjustQuantity(ctx, id, delta); err != nil {
		report.Failed = append(report.Failed, domain.MutationFailure{ProductID: id, Name: name, Error: err.Error()})
		return
	}
	report.Applied = append(report.Applied, domain.Mutation{ProductID: id, Name: name, QuantityDelta: delta, Reason: reason})
}

func (a *Applier) setPrice(ctx context.Context, id int64, name string, price float64, reason string, report *domain.ApplyReport) {
	if err := a.products.SetPrice(ctx, id, price); err != nil {
		report.Failed = append(report.Failed, domain.MutationFailure{ProductID: id, Name: name, Error: err.Error()})
		return
	}
	report.Applied = append(report.Applied, domain.Mutation{ProductID: id, Name: name, NewPrice: price, Reason: reason})
}

// applySeasonal trims stock in a low-demand season (never below reorder
// level) and builds it up in a high-demand one.
func (a *Applier) applySeasonal(ctx context.Context, result *domain.SeasonalResult, snap *Snapshot, report *domain.ApplyReport) {
	for _, pd := range result.Products {
		p, ok := snap.Product(pd.ProductID)
		if !ok {
			continue
		}

		factor := pd.SeasonalFactors[pd.CurrentSeason]
		switch {
		case factor < 1:
			target := int(float64(p.Quantity) * 0.8)
			if target < p.ReorderLevel {
				target = p.ReorderLevel
			}
			a.adjust(ctx, p.ID, p.Name, target-p.Quantity, "seasonal low-demand trim", report)
		case factor > 1:
			target := int(float64(p.Quantity) * 1.2)
			a.adjust(ctx, p.ID, p.Name, target-p.Quantity, "seasonal high-demand build-up", report)
		}
	}
}

// applyStockout tops up high-risk items back to their reorder level.
func (a *Applier) applyStockout(ctx context.Context, result *domain.StockoutResult, snap *Snapshot, report *domain.ApplyReport) {
	for _, pd := range result.Products {
		if pd.RiskLevel != domain.RiskHigh {
			continue
		}
		p, ok := snap.Product(pd.ProductID)
		if !ok {
			continue
		}
		if additional := p.ReorderLevel - p.Quantity; additional > 0 {
			a.adjust(ctx, p.ID, p.Name, additional, "stockout risk top-up", report)
		}
	}
}

// applyPricing replaces prices whose optimal differs from current by more
// than the materiality threshold; smaller deltas are suppressed to avoid
// churn.
func (a *Applier) applyPricing(ctx context.Context, result *domain.PricingResult, report *domain.ApplyReport) {
	for _, pd := range result.Products {
		if pd.CurrentPrice == 0 {
			continue
		}
		diff := math.Abs(pd.OptimalPrice-pd.CurrentPrice) / pd.CurrentPrice
		if diff > priceChangeThreshold {
			a.setPrice(ctx, pd.ProductID, pd.Name, pd.OptimalPrice, "price optimization", report)
		}
	}
}

// applyReordering places an EOQ-sized order for products at or below their
// reorder point.
func (a *Applier) applyReordering(ctx context.Context, result *domain.ReorderingResult, report *domain.ApplyReport) {
	for _, pd := range result.Products {
		if pd.CurrentQuantity <= pd.ReorderPoint && pd.EOQ > 0 {
			a.adjust(ctx, pd.ProductID, pd.Name, pd.EOQ, "reorder point replenishment", report)
		}
	}
}

// applyExpiry reduces stock carrying expiry risk, never below reorder level.
func (a *Applier) applyExpiry(ctx context.Context, result *domain.ExpiryResult, snap *Snapshot, report *domain.ApplyReport) {
	for _, pd := range result.Products {
		if pd.ValueAtRisk <= 0 {
			continue
		}
		p, ok := snap.Product(pd.ProductID)
		if !ok {
			continue
		}
		target := int(float64(p.Quantity) * 0.7)
		if target < p.ReorderLevel {
			target = p.ReorderLevel
		}
		a.adjust(ctx, p.ID, p.Name, target-p.Quantity, "expiry risk reduction", report)
	}
}

// applySales builds up stock behind strong growth and trims it behind a
// declining trend.
func (a *Applier) applySales(ctx context.Context, result *domain.SalesResult, snap *Snapshot, report *domain.ApplyReport) {
	for _, pd := range result.Products {
		p, ok := snap.Product(pd.ProductID)
		if !ok {
			continue
		}

		switch pd.TrendStatus {
		case domain.TrendStrongGrowth:
			target := int(float64(p.Quantity) * 1.3)
			a.adjust(ctx, p.ID, p.Name, target-p.Quantity, "sales growth build-up", report)
		case domain.TrendDeclining:
			target := int(float64(p.Quantity) * 0.7)
			if target < p.ReorderLevel {
				target = p.ReorderLevel
			}
			a.adjust(ctx, p.ID, p.Name, target-p.Quantity, "sales decline trim", report)
		}
	}
}

// applyRestructure bumps quantities across whole categories whose capital
// allocation is badly misaligned.
func (a *Applier) applyRestructure(ctx context.Context, result *domain.RestructureResult, report *domain.ApplyReport) {
	for _, cat := range result.Categories {
		if math.Abs(cat.AllocationDifference) <= allocationGapThreshold {
			continue
		}
		for _, pd := range cat.Products {
			target := int(float64(pd.Quantity) * 1.2)
			a.adjust(ctx, pd.ProductID, pd.Name, target-pd.Quantity, "category capital rebalance", report)
		}
	}
}
