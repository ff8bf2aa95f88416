package simulation

import (
	"fmt"
	"sort"

	"github.com/lalaji/replenish/internal/domain"
)

// allocationGapThreshold is the percentage-point misalignment beyond which a
// category is flagged for restructuring.
const allocationGapThreshold = 10.0

// turnoverHeuristic estimates annual turnover from how close stock sits to
// the reorder level: tight stock turns fast.
func turnoverHeuristic(quantity, reorderLevel int) float64 {
	switch {
	case quantity <= reorderLevel:
		return 6.0
	case quantity <= reorderLevel*2:
		return 4.0
	default:
		return 2.5
	}
}

func (e *Engine) runRestructure(snap *Snapshot, store domain.Store) *domain.RestructureResult {
	result := &domain.RestructureResult{
		Title:       fmt.Sprintf("Inventory Restructuring Analysis - %s", store.StoreName),
		Description: "This simulation analyzes current inventory allocation and suggests restructuring to optimize capital allocation.",
		Categories:  make(map[string]*domain.CategoryAllocation),
	}

	for _, p := range snap.Products {
		cat, ok := result.Categories[p.Category]
		if !ok {
			cat = &domain.CategoryAllocation{}
			result.Categories[p.Category] = cat
		}

		inventoryValue := float64(p.Quantity) * p.CostPrice
		cat.Products = append(cat.Products, domain.AllocationProduct{
			ProductID:      p.ID,
			Name:           p.Name,
			Quantity:       p.Quantity,
			CostPrice:      p.CostPrice,
			InventoryValue: round2(inventoryValue),
			Turnover:       turnoverHeuristic(p.Quantity, p.ReorderLevel),
		})
		cat.TotalValue += inventoryValue
	}

	totalValue := 0.0
	totalTurnover := 0.0
	for _, cat := range result.Categories {
		totalValue += cat.TotalValue

		turnoverSum := 0.0
		for _, p := range cat.Products {
			turnoverSum += p.Turnover
		}
		if len(cat.Products) > 0 {
			cat.AvgTurnover = turnoverSum / float64(len(cat.Products))
		}
		totalTurnover += cat.AvgTurnover

		// fastest movers first
		sort.SliceStable(cat.Products, func(i, j int) bool {
			return cat.Products[i].Turnover > cat.Products[j].Turnover
		})
	}

	misaligned := 0
	for _, cat := range result.Categories {
		if totalValue > 0 {
			cat.CapitalAllocation = cat.TotalValue / totalValue * 100
		}
		// capital follows turnover
		if totalTurnover > 0 {
			cat.OptimalAllocation = cat.AvgTurnover / totalTurnover * 100
		}
		cat.AllocationDifference = cat.OptimalAllocation - cat.CapitalAllocation
		urgent := cat.AllocationDifference > allocationGapThreshold || cat.AllocationDifference < -allocationGapThreshold
		if urgent {
			misaligned++
		}
		cat.Recommendation = urgencyRecommendation(urgent)

		cat.TotalValue = round2(cat.TotalValue)
		cat.CapitalAllocation = round2(cat.CapitalAllocation)
		cat.OptimalAllocation = round2(cat.OptimalAllocation)
		cat.AllocationDifference = round2(cat.AllocationDifference)
	}

	result.TotalInventoryValue = round2(totalValue)
	result.Stats = []domain.Stat{
		{Label: "Categories", Value: len(result.Categories)},
		{Label: "Misaligned Categories", Value: misaligned},
		{Label: "Total Inventory Value", Value: result.TotalInventoryValue},
	}

	return result
}
