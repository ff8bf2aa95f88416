package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalaji/replenish/internal/domain"
)

func TestHistoricalEstimatorDailyDemand(t *testing.T) {
	est := HistoricalEstimator{}

	assert.Equal(t, 0.1, est.DailyDemand(nil, 1, 100))
	assert.Equal(t, 0.1, est.DailyDemand(&Snapshot{WindowDays: 0}, 1, 100))

	snap := &Snapshot{
		UnitsSold:  map[int64]int{1: 90},
		WindowDays: 30,
	}
	assert.Equal(t, 3.0, est.DailyDemand(snap, 1, 100))
	// no recorded sales floors at 0.1 regardless of stock on hand
	assert.Equal(t, 0.1, est.DailyDemand(snap, 2, 500))
}

func TestStockoutWithHistoricalDemand(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngine(HistoricalEstimator{}, nil)
	e.now = func() time.Time { return now }

	snap := snapshotOf(
		domain.Product{ID: 1, Name: "Basmati Rice 5kg", Category: "Staples", Quantity: 100, ReorderLevel: 10},
		domain.Product{ID: 2, Name: "Bath Soap", Category: "Essentials", Quantity: 50, ReorderLevel: 10},
	)
	snap.UnitsSold[1] = 90

	result, err := e.Run(domain.ScenarioStockout, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Stockout.Products, 2)

	// 90 units over the 30-day window is 3/day, not the 5/day the stock
	// fraction heuristic would report for 100 on hand.
	rice := result.Stockout.Products[0]
	assert.Equal(t, int64(1), rice.ProductID)
	assert.Equal(t, 3, rice.DailySalesAvg)
	assert.Equal(t, 33, rice.DaysUntilStockout)
	assert.Equal(t, "2025-07-04", rice.StockoutDate)
	assert.Equal(t, domain.RiskLow, rice.RiskLevel)

	// a product with zero recorded sales never runs out
	soap := result.Stockout.Products[1]
	assert.Equal(t, 0, soap.DailySalesAvg)
	assert.Equal(t, maxDaysUntilStockout, soap.DaysUntilStockout)
}

func TestReorderingWithHistoricalDemand(t *testing.T) {
	e := NewEngine(HistoricalEstimator{}, nil)
	e.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	snap := snapshotOf(domain.Product{
		ID: 1, Name: "Basmati Rice 5kg", Category: "Staples",
		Quantity: 100, ReorderLevel: 10, CostPrice: 60, DistributorID: 1,
	})
	snap.UnitsSold[1] = 90

	result, err := e.Run(domain.ScenarioReordering, snap, testStore)
	require.NoError(t, err)
	require.Len(t, result.Reordering.Products, 1)

	p := result.Reordering.Products[0]
	assert.Equal(t, 3, p.DailySales)
	assert.Equal(t, 4, p.LeadTimeDays)
	assert.Equal(t, EOQ(3, 4), p.EOQ)
	assert.Equal(t, ReorderPoint(3, 4, 10), p.ReorderPoint)
}
