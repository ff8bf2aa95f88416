package simulation

import (
	"sort"

	"github.com/lalaji/replenish/internal/domain"
)

func (e *Engine) runReordering(snap *Snapshot, store domain.Store) *domain.ReorderingResult {
	result := &domain.ReorderingResult{
		Title:       "Reordering Analysis",
		Description: "This simulation optimizes reordering strategies to minimize costs while preventing stockouts.",
		Currency:    store.CurrencySymbol,
		Products:    make([]domain.ReorderingProduct, 0, len(snap.Products)),
	}

	belowPoint := 0
	for _, p := range snap.Products {
		dailySales := int(e.demand.DailyDemand(snap, p.ID, p.Quantity))
		if dailySales < 1 {
			dailySales = 1
		}

		// lead time varies by distributor, 3 to 5 days
		leadTime := 3
		if p.DistributorID > 0 {
			leadTime = 3 + int(p.DistributorID%3)
		}

		eoq := EOQ(float64(dailySales), leadTime)
		// reorder level doubles as the safety-stock term
		reorderPoint := ReorderPoint(float64(dailySales), leadTime, p.ReorderLevel)

		daysUntilReorder := 0
		if p.Quantity > reorderPoint {
			daysUntilReorder = (p.Quantity - reorderPoint) / dailySales
		} else {
			belowPoint++
		}

		orderCycle := 0
		if dailySales > 0 {
			orderCycle = eoq / dailySales
		}

		totalAnnualCost := 0.0
		if eoq > 0 {
			annualOrderingCost := (float64(dailySales) * daysPerYear / float64(eoq)) * orderingCostPerEvent
			annualHoldingCost := (float64(eoq) / 2) * (p.CostPrice * annualHoldingCostRate)
			totalAnnualCost = round2(annualOrderingCost + annualHoldingCost)
		}

		result.Products = append(result.Products, domain.ReorderingProduct{
			ProductID:           p.ID,
			Name:                p.Name,
			CurrentQuantity:     p.Quantity,
			DailySales:          dailySales,
			LeadTimeDays:        leadTime,
			EOQ:                 eoq,
			ReorderPoint:        reorderPoint,
			CurrentReorderLevel: p.ReorderLevel,
			DaysUntilReorder:    daysUntilReorder,
			OrderCycleDays:      orderCycle,
			TotalAnnualCost:     totalAnnualCost,
			Recommendation:      reorderRecommendation(p.Quantity, reorderPoint, eoq, daysUntilReorder),
		})
	}

	// most urgent first
	sort.SliceStable(result.Products, func(i, j int) bool {
		return result.Products[i].DaysUntilReorder < result.Products[j].DaysUntilReorder
	})

	result.Stats = []domain.Stat{
		{Label: "Products", Value: len(result.Products)},
		{Label: "Below Reorder Point", Value: belowPoint},
	}

	return result
}
