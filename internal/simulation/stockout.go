package simulation

import (
	"fmt"
	"sort"

	"github.com/lalaji/replenish/internal/domain"
)

const maxDaysUntilStockout = 999

func (e *Engine) runStockout(snap *Snapshot, store domain.Store) *domain.StockoutResult {
	result := &domain.StockoutResult{
		Title:       fmt.Sprintf("Stockout Risk Analysis - %s", store.StoreName),
		Description: "This simulation analyzes the risk of stock outages based on current inventory levels and historical demand.",
		Products:    make([]domain.StockoutProduct, 0, len(snap.Products)),
	}

	today := e.now()
	riskCounts := map[domain.RiskLevel]int{}
	totalDays := 0

	for _, p := range snap.Products {
		dailySales := int(e.demand.DailyDemand(snap, p.ID, p.Quantity))

		daysUntilStockout := maxDaysUntilStockout
		if dailySales > 0 {
			daysUntilStockout = p.Quantity / dailySales
		}

		risk := ClassifyRisk(float64(daysUntilStockout), float64(p.ReorderLevel))
		riskCounts[risk]++
		totalDays += daysUntilStockout

		result.Products = append(result.Products, domain.StockoutProduct{
			ProductID:         p.ID,
			Name:              p.Name,
			Category:          p.Category,
			CurrentQuantity:   p.Quantity,
			ReorderLevel:      p.ReorderLevel,
			DailySalesAvg:     dailySales,
			DaysUntilStockout: daysUntilStockout,
			StockoutDate:      today.AddDate(0, 0, daysUntilStockout).Format("2006-01-02"),
			RiskLevel:         risk,
			Recommendation:    riskRecommendation(risk),
		})
	}

	// High before Medium before Low; input order preserved within a tier
	sort.SliceStable(result.Products, func(i, j int) bool {
		return riskRank(result.Products[i].RiskLevel) < riskRank(result.Products[j].RiskLevel)
	})

	avgDays := 0.0
	if len(result.Products) > 0 {
		avgDays = round1(float64(totalDays) / float64(len(result.Products)))
	}

	result.Stats = []domain.Stat{
		{Label: "High Risk", Value: riskCounts[domain.RiskHigh]},
		{Label: "Medium Risk", Value: riskCounts[domain.RiskMedium]},
		{Label: "Low Risk", Value: riskCounts[domain.RiskLow]},
		{Label: "Average Days Left", Value: avgDays},
	}

	return result
}
