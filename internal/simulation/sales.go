package simulation

import (
	"sort"

	"github.com/lalaji/replenish/internal/domain"
)

// salesPeriodWeeks is the length of the synthetic weekly series.
const salesPeriodWeeks = 12

// runSales builds a stochastic weekly sales series per product. Re-running
// with the same inputs but a different randomness source produces different
// numbers; structural properties (series length, orderings, totals adding up)
// are what callers may rely on.
func (e *Engine) runSales(snap *Snapshot, store domain.Store) *domain.SalesResult {
	result := &domain.SalesResult{
		Title:       "Sales Analytics",
		Description: "This simulation analyzes sales patterns and provides revenue optimization insights.",
		Currency:    store.CurrencySymbol,
		Products:    make([]domain.SalesProduct, 0, len(snap.Products)),
	}

	growthCount := 0
	decliningCount := 0

	for _, p := range snap.Products {
		avgWeeklySales := int(float64(p.Quantity) * 0.1)
		if avgWeeklySales < 1 {
			avgWeeklySales = 1
		}

		weeklySales := make([]domain.WeeklySale, 0, salesPeriodWeeks)
		totalRevenue := 0.0
		totalProfit := 0.0
		totalQuantity := 0
		firstHalfRevenue := 0.0
		secondHalfRevenue := 0.0

		for week := 0; week < salesPeriodWeeks; week++ {
			// bounded noise in [0.7, 1.3)
			factor := 0.7 + e.rng.Float64()*0.6
			quantity := int(float64(avgWeeklySales) * factor)
			revenue := float64(quantity) * p.Price
			profit := float64(quantity) * (p.Price - p.CostPrice)

			weeklySales = append(weeklySales, domain.WeeklySale{
				Week:     week + 1,
				Quantity: quantity,
				Revenue:  round2(revenue),
				Profit:   round2(profit),
			})

			totalRevenue += revenue
			totalProfit += profit
			totalQuantity += quantity
			if week < salesPeriodWeeks/2 {
				firstHalfRevenue += revenue
			} else {
				secondHalfRevenue += revenue
			}
		}

		trend := 0.0
		if firstHalfRevenue > 0 {
			trend = (secondHalfRevenue - firstHalfRevenue) / firstHalfRevenue * 100
		}

		trendStatus := domain.TrendDeclining
		switch {
		case trend > 10:
			trendStatus = domain.TrendStrongGrowth
		case trend > 0:
			trendStatus = domain.TrendModerateGrowth
		case trend > -10:
			trendStatus = domain.TrendStable
		}

		switch trendStatus {
		case domain.TrendStrongGrowth:
			growthCount++
		case domain.TrendDeclining:
			decliningCount++
		}

		result.Products = append(result.Products, domain.SalesProduct{
			ProductID:      p.ID,
			Name:           p.Name,
			Category:       p.Category,
			WeeklySales:    weeklySales,
			TotalRevenue:   round2(totalRevenue),
			TotalProfit:    round2(totalProfit),
			TotalQuantity:  totalQuantity,
			TrendPercent:   round1(trend),
			TrendStatus:    trendStatus,
			Recommendation: urgencyRecommendation(trendStatus != domain.TrendStable),
		})
	}

	// highest revenue first
	sort.SliceStable(result.Products, func(i, j int) bool {
		return result.Products[i].TotalRevenue > result.Products[j].TotalRevenue
	})

	result.Stats = []domain.Stat{
		{Label: "Products", Value: len(result.Products)},
		{Label: "Strong Growth", Value: growthCount},
		{Label: "Declining", Value: decliningCount},
	}

	return result
}
