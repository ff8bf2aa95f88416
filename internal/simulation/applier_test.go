package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
	"github.com/lalaji/replenish/internal/repository/memory"
)

// flakyProducts fails writes for one product id so partial application can be
// exercised.
type flakyProducts struct {
	repository.ProductRepository
	failID int64
}

var errWriteRefused = errors.New("write refused")

func (f *flakyProducts) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	if id == f.failID {
		return errWriteRefused
	}
	return f.ProductRepository.AdjustQuantity(ctx, id, delta)
}

func (f *flakyProducts) SetPrice(ctx context.Context, id int64, price float64) error {
	if id == f.failID {
		return errWriteRefused
	}
	return f.ProductRepository.SetPrice(ctx, id, price)
}

func seedProducts(t *testing.T, store *memory.Store, products ...domain.Product) []domain.Product {
	t.Helper()
	for i := range products {
		require.NoError(t, store.CreateProduct(context.Background(), &products[i]))
	}
	return products
}

func TestApplyStockoutContinuesPastFailures(t *testing.T) {
	store := memory.New()
	products := seedProducts(t, store,
		domain.Product{Name: "Dal", Quantity: 5, ReorderLevel: 50},
		domain.Product{Name: "Rice", Quantity: 5, ReorderLevel: 40},
	)

	applier := NewApplier(&flakyProducts{ProductRepository: store, failID: products[0].ID})
	snap := snapshotOf(products...)

	result := &domain.SimulationResult{
		Type: domain.ScenarioStockout,
		Stockout: &domain.StockoutResult{
			Products: []domain.StockoutProduct{
				{ProductID: products[0].ID, Name: "Dal", RiskLevel: domain.RiskHigh},
				{ProductID: products[1].ID, Name: "Rice", RiskLevel: domain.RiskHigh},
			},
		},
	}

	report := applier.Apply(context.Background(), result, snap)

	// the failing product is reported, the other still commits
	require.Len(t, report.Failed, 1)
	assert.Equal(t, products[0].ID, report.Failed[0].ProductID)
	require.Len(t, report.Applied, 1)
	assert.Equal(t, 35, report.Applied[0].QuantityDelta)

	rice, err := store.GetProductByID(context.Background(), products[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 40, rice.Quantity)
}

func TestApplyStockoutSkipsNonHighRisk(t *testing.T) {
	store := memory.New()
	products := seedProducts(t, store,
		domain.Product{Name: "Soap", Quantity: 5, ReorderLevel: 50},
	)

	applier := NewApplier(store)
	result := &domain.SimulationResult{
		Type: domain.ScenarioStockout,
		Stockout: &domain.StockoutResult{
			Products: []domain.StockoutProduct{
				{ProductID: products[0].ID, Name: "Soap", RiskLevel: domain.RiskMedium},
			},
		},
	}

	report := applier.Apply(context.Background(), result, snapshotOf(products...))
	assert.Empty(t, report.Applied)
	assert.Empty(t, report.Failed)
}

func TestApplyPricingSuppressesSmallMoves(t *testing.T) {
	store := memory.New()
	products := seedProducts(t, store,
		domain.Product{Name: "Ghee", Price: 100},
		domain.Product{Name: "Oil", Price: 100},
	)

	applier := NewApplier(store)
	result := &domain.SimulationResult{
		Type: domain.ScenarioPricing,
		Pricing: &domain.PricingResult{
			Products: []domain.PricingProduct{
				// 1.5% move: inside the materiality threshold, suppressed
				{ProductID: products[0].ID, Name: "Ghee", CurrentPrice: 100, OptimalPrice: 101.5},
				// 10% move: applied
				{ProductID: products[1].ID, Name: "Oil", CurrentPrice: 100, OptimalPrice: 110},
			},
		},
	}

	report := applier.Apply(context.Background(), result, nil)

	require.Len(t, report.Applied, 1)
	assert.Equal(t, products[1].ID, report.Applied[0].ProductID)
	assert.Equal(t, 110.0, report.Applied[0].NewPrice)

	ghee, err := store.GetProductByID(context.Background(), products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ghee.Price)
}

func TestApplySeasonalTrimFloorsAtReorderLevel(t *testing.T) {
	store := memory.New()
	products := seedProducts(t, store,
		domain.Product{Name: "Chocolate", Category: "Confectionery", Quantity: 50, ReorderLevel: 45},
	)

	applier := NewApplier(store)
	result := &domain.SimulationResult{
		Type: domain.ScenarioSeasonal,
		Seasonal: &domain.SeasonalResult{
			Products: []domain.SeasonalProduct{{
				ProductID:       products[0].ID,
				Name:            "Chocolate",
				CurrentSeason:   "Summer",
				SeasonalFactors: map[string]float64{"Summer": 0.7},
			}},
		},
	}

	report := applier.Apply(context.Background(), result, snapshotOf(products...))

	// a plain 20% trim would land at 40, below the reorder level
	require.Len(t, report.Applied, 1)
	assert.Equal(t, -5, report.Applied[0].QuantityDelta)

	p, err := store.GetProductByID(context.Background(), products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 45, p.Quantity)
}

func TestApplyReorderingReplenishesByEOQ(t *testing.T) {
	store := memory.New()
	products := seedProducts(t, store,
		domain.Product{Name: "Sugar", Quantity: 8, ReorderLevel: 15},
	)

	applier := NewApplier(store)
	result := &domain.SimulationResult{
		Type: domain.ScenarioReordering,
		Reordering: &domain.ReorderingResult{
			Products: []domain.ReorderingProduct{{
				ProductID:       products[0].ID,
				Name:            "Sugar",
				CurrentQuantity: 8,
				ReorderPoint:    19,
				EOQ:             55,
			}},
		},
	}

	report := applier.Apply(context.Background(), result, nil)

	require.Len(t, report.Applied, 1)
	assert.Equal(t, 55, report.Applied[0].QuantityDelta)

	p, err := store.GetProductByID(context.Background(), products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 63, p.Quantity)
}
