package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalaji/replenish/internal/domain"
)

var testStore = domain.Store{
	ID:             1,
	CountryCode:    "IN",
	StoreName:      "Lalaji",
	CurrencySymbol: "₹",
	IsActive:       true,
}

// newTestEngine pins the clock and the randomness source so scenario output
// is reproducible.
func newTestEngine(now time.Time) *Engine {
	e := NewEngine(nil, rand.New(rand.NewSource(42)))
	e.now = func() time.Time { return now }
	return e
}

func snapshotOf(products ...domain.Product) *Snapshot {
	return &Snapshot{
		Products:   products,
		UnitsSold:  map[int64]int{},
		TakenAt:    time.Now().UTC(),
		WindowDays: 30,
	}
}

func TestRunUnknownScenario(t *testing.T) {
	e := newTestEngine(time.Now())

	_, err := e.Run("blackhole", snapshotOf(), testStore)
	require.ErrorIs(t, err, ErrUnknownScenario)
}

func TestRunNilSnapshot(t *testing.T) {
	e := newTestEngine(time.Now())

	result, err := e.Run(domain.ScenarioStockout, nil, testStore)
	require.NoError(t, err)
	require.NotNil(t, result.Stockout)
	assert.Empty(t, result.Stockout.Products)
}

func TestStockoutLowQuantityProduct(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Sugar 1kg", Category: "Essentials",
		Quantity: 8, Price: 50, CostPrice: 30,
		DistributorID: 4, ReorderLevel: 15,
	})

	result, err := e.Run(domain.ScenarioStockout, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Stockout.Products, 1)

	p := result.Stockout.Products[0]
	// 5% of 8 truncates to 0, floored at 1 unit/day
	assert.Equal(t, 1, p.DailySalesAvg)
	assert.Equal(t, 8, p.DaysUntilStockout)
	assert.Equal(t, "2025-06-09", p.StockoutDate)
	// 8 days against a 15-unit reorder level sits in the middle tier
	assert.Equal(t, domain.RiskMedium, p.RiskLevel)
}

func TestStockoutSortsByRiskKeepingInputOrder(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(
		// 5 daily, 20 days, ratio 2.0: Low
		domain.Product{ID: 1, Name: "Soap", Quantity: 100, ReorderLevel: 10},
		// 10 daily, 20 days, ratio 0.4: High
		domain.Product{ID: 2, Name: "Dal", Quantity: 200, ReorderLevel: 50},
		// 1 daily, 8 days, ratio 0.53: Medium
		domain.Product{ID: 3, Name: "Sugar", Quantity: 8, ReorderLevel: 15},
		// 15 daily, 20 days, ratio 0.4: High, after Dal in input order
		domain.Product{ID: 4, Name: "Rice", Quantity: 300, ReorderLevel: 75},
	)

	result, err := e.Run(domain.ScenarioStockout, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Stockout.Products, 4)

	ids := []int64{
		result.Stockout.Products[0].ProductID,
		result.Stockout.Products[1].ProductID,
		result.Stockout.Products[2].ProductID,
		result.Stockout.Products[3].ProductID,
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, ids)
}

func TestReorderingBelowReorderPoint(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Sugar 1kg", Category: "Essentials",
		Quantity: 8, Price: 50, CostPrice: 30,
		DistributorID: 4, ReorderLevel: 15,
	})

	result, err := e.Run(domain.ScenarioReordering, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Reordering.Products, 1)

	p := result.Reordering.Products[0]
	assert.Equal(t, 1, p.DailySales)
	// distributor 4: 3 + 4%3 = 4 day lead time
	assert.Equal(t, 4, p.LeadTimeDays)
	assert.Equal(t, 55, p.EOQ)
	// 1*4 + 15 safety stock
	assert.Equal(t, 19, p.ReorderPoint)
	assert.Equal(t, 0, p.DaysUntilReorder)
	assert.Equal(t, "Reorder Now: Place an order for 55 units immediately.", p.Recommendation)
	// (365/55)*50 ordering + (55/2)*30*0.25 holding
	assert.InDelta(t, 538.07, p.TotalAnnualCost, 0.01)

	require.Len(t, result.Reordering.Stats, 2)
	assert.Equal(t, 1, result.Reordering.Stats[1].Value)
}

func TestReorderingAboveReorderPoint(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Rice", Quantity: 200, CostPrice: 100,
		DistributorID: 3, ReorderLevel: 20,
	})

	result, err := e.Run(domain.ScenarioReordering, snap, testStore)
	require.NoError(t, err)

	p := result.Reordering.Products[0]
	// 10 daily, lead 3, point 50: (200-50)/10
	assert.Equal(t, 15, p.DaysUntilReorder)
	assert.Contains(t, p.Recommendation, "No action needed")
}

func TestSeasonalPeakAndProjections(t *testing.T) {
	// January: month 1 % 4 indexes Spring
	e := newTestEngine(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Milk Chocolate", Category: "Confectionery", Quantity: 100,
	})

	result, err := e.Run(domain.ScenarioSeasonal, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Seasonal.Products, 1)

	p := result.Seasonal.Products[0]
	assert.Equal(t, "Spring", p.CurrentSeason)
	assert.Equal(t, "Winter", p.PeakSeason)
	assert.Equal(t, 140, p.ProjectedQuantities["Winter"])
	assert.Equal(t, 70, p.ProjectedQuantities["Summer"])
	// Spring factor 0.9 < 1: build up ahead of the peak
	assert.Equal(t, "Increase inventory before Winter", p.Recommendation)
}

func TestSeasonalUnknownCategoryIsFlat(t *testing.T) {
	e := newTestEngine(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	snap := snapshotOf(domain.Product{ID: 1, Name: "Mystery Box", Category: "Gadgets", Quantity: 50})

	result, err := e.Run(domain.ScenarioSeasonal, snap, testStore)
	require.NoError(t, err)

	p := result.Seasonal.Products[0]
	for _, season := range []string{"Winter", "Spring", "Summer", "Fall"} {
		assert.Equal(t, 1.0, p.SeasonalFactors[season])
		assert.Equal(t, 50, p.ProjectedQuantities[season])
	}
}

func TestPricingFindsProfitMaximizingPrice(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Ghee 1L", Category: "Staples",
		Quantity: 100, Price: 100, CostPrice: 60,
	})

	result, err := e.Run(domain.ScenarioPricing, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Pricing.Products, 1)

	p := result.Pricing.Products[0]
	require.Len(t, p.PricePoints, 5)

	// 0.9 multiplier: price 90, elastic quantity truncates to 24 units
	// (1.15-0.9 lands just under 0.25 in float64), profit (90-60)*24 = 720,
	// strictly the best of the five points
	assert.Equal(t, 90.0, p.OptimalPrice)
	assert.Equal(t, 24, p.PricePoints[0].EstimatedQuantity)
	assert.Equal(t, 720.0, p.PricePoints[0].Profit)
	assert.Contains(t, p.Recommendation, "decreasing price to ₹90.00")
}

func TestPricingZeroStockKeepsCurrentPrice(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Saffron 1g", Quantity: 0, Price: 400, CostPrice: 250,
	})

	result, err := e.Run(domain.ScenarioPricing, snap, testStore)
	require.NoError(t, err)

	// every price point estimates zero units, so no profit strictly beats
	// zero and the current price stands
	p := result.Pricing.Products[0]
	assert.Equal(t, 400.0, p.OptimalPrice)
	assert.Equal(t, "The current price is already optimal.", p.Recommendation)
}

func TestExpiryBatchesForDairy(t *testing.T) {
	e := newTestEngine(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Paneer 200g", Category: "Dairy", Quantity: 20, CostPrice: 68,
	})

	result, err := e.Run(domain.ScenarioExpiry, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Expiry.Products, 1)

	p := result.Expiry.Products[0]
	// 20/5 = 4 batches of 5, shelf life 14 + 7 per batch
	require.Len(t, p.Batches, 4)
	assert.Equal(t, "BT-1-1", p.Batches[0].BatchID)
	assert.Equal(t, 5, p.Batches[0].Quantity)
	assert.Equal(t, []int{14, 21, 28, 35}, []int{
		p.Batches[0].DaysUntilExpiry,
		p.Batches[1].DaysUntilExpiry,
		p.Batches[2].DaysUntilExpiry,
		p.Batches[3].DaysUntilExpiry,
	})
	assert.Equal(t, "Warning", p.Batches[0].Status)
	assert.Equal(t, "Good", p.Batches[3].Status)

	// the three batches inside 30 days carry the risk: 15 units * 68
	assert.Equal(t, 1020.0, p.ValueAtRisk)
	assert.Equal(t, 1360.0, p.TotalValue)
	assert.Contains(t, p.Recommendation, "3 batches expiring within 30 days")
}

func TestExpirySortsByValueAtRisk(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(
		// Confectionery: 180-day shelf life, nothing at risk
		domain.Product{ID: 1, Name: "Chocolate", Category: "Confectionery", Quantity: 50, CostPrice: 30},
		domain.Product{ID: 2, Name: "Milk", Category: "Dairy", Quantity: 20, CostPrice: 52},
	)

	result, err := e.Run(domain.ScenarioExpiry, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Expiry.Products, 2)
	assert.Equal(t, int64(2), result.Expiry.Products[0].ProductID)
}

func TestSalesSeriesStructure(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(
		domain.Product{ID: 1, Name: "Rice", Category: "Staples", Quantity: 200, Price: 620, CostPrice: 470},
		domain.Product{ID: 2, Name: "Soap", Category: "Essentials", Quantity: 30, Price: 38, CostPrice: 24},
	)

	result, err := e.Run(domain.ScenarioSales, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Sales.Products, 2)

	// highest revenue first; rice dwarfs soap at any noise factor
	assert.Equal(t, int64(1), result.Sales.Products[0].ProductID)

	for _, p := range result.Sales.Products {
		require.Len(t, p.WeeklySales, 12)

		quantity := 0
		for _, w := range p.WeeklySales {
			assert.GreaterOrEqual(t, w.Quantity, 0)
			quantity += w.Quantity
		}
		assert.Equal(t, quantity, p.TotalQuantity)
		assert.Contains(t, []string{
			domain.TrendStrongGrowth, domain.TrendModerateGrowth,
			domain.TrendStable, domain.TrendDeclining,
		}, p.TrendStatus)
	}
}

func TestSalesDeterministicWithFixedSeed(t *testing.T) {
	snap := snapshotOf(domain.Product{ID: 1, Name: "Rice", Quantity: 200, Price: 620, CostPrice: 470})

	run := func() *domain.SalesResult {
		e := newTestEngine(time.Now())
		result, err := e.Run(domain.ScenarioSales, snap, testStore)
		require.NoError(t, err)
		return result.Sales
	}

	assert.Equal(t, run().Products[0].WeeklySales, run().Products[0].WeeklySales)
}

func TestRestructureAllocationsSumToHundred(t *testing.T) {
	e := newTestEngine(time.Now())

	snap := snapshotOf(
		// slow mover: quantity far above reorder level, turnover 2.5
		domain.Product{ID: 1, Name: "Rice", Category: "Staples", Quantity: 100, CostPrice: 10, ReorderLevel: 10},
		// fast mover: at reorder level, turnover 6.0
		domain.Product{ID: 2, Name: "Milk", Category: "Dairy", Quantity: 10, CostPrice: 50, ReorderLevel: 10},
	)

	result, err := e.Run(domain.ScenarioRestructure, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Restructure.Categories, 2)

	staples := result.Restructure.Categories["Staples"]
	dairy := result.Restructure.Categories["Dairy"]
	require.NotNil(t, staples)
	require.NotNil(t, dairy)

	assert.Equal(t, 1500.0, result.Restructure.TotalInventoryValue)
	assert.InDelta(t, 100, staples.CapitalAllocation+dairy.CapitalAllocation, 0.01)
	assert.InDelta(t, 100, staples.OptimalAllocation+dairy.OptimalAllocation, 0.01)

	// capital sits in the slow category: both sides misaligned past the
	// 10-point threshold
	assert.Less(t, staples.AllocationDifference, -10.0)
	assert.Greater(t, dairy.AllocationDifference, 10.0)
	assert.Equal(t, 2, result.Restructure.Stats[1].Value)
}
