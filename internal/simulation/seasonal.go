package simulation

import (
	"fmt"

	"github.com/lalaji/replenish/internal/domain"
)

// seasons in factor-table order. The current season is indexed by month % 4,
// a crude proxy rather than a calendar season, kept for compatibility with
// historical output.
var seasons = []string{"Winter", "Spring", "Summer", "Fall"}

var categorySeasonFactors = map[string]map[string]float64{
	"Confectionery": {"Winter": 1.4, "Spring": 0.9, "Summer": 0.7, "Fall": 1.2},
	"Essentials":    {"Winter": 1.0, "Spring": 1.0, "Summer": 1.0, "Fall": 1.0},
	"Staples":       {"Winter": 1.2, "Spring": 0.8, "Summer": 0.9, "Fall": 1.1},
	"Dairy":         {"Winter": 0.8, "Spring": 1.2, "Summer": 1.3, "Fall": 0.9},
}

func seasonFactors(category string) map[string]float64 {
	if factors, ok := categorySeasonFactors[category]; ok {
		return factors
	}
	return map[string]float64{"Winter": 1.0, "Spring": 1.0, "Summer": 1.0, "Fall": 1.0}
}

func (e *Engine) runSeasonal(snap *Snapshot, store domain.Store) *domain.SeasonalResult {
	result := &domain.SeasonalResult{
		Title:       fmt.Sprintf("Seasonal Demand Analysis - %s", store.StoreName),
		Description: "This simulation predicts seasonal inventory demand fluctuations based on historical patterns.",
		Products:    make([]domain.SeasonalProduct, 0, len(snap.Products)),
	}

	currentSeason := seasons[int(e.now().Month())%4]

	increaseCount := 0
	for _, p := range snap.Products {
		factors := seasonFactors(p.Category)

		// first max in season order, matching historical tie-breaking
		peakSeason := seasons[0]
		for _, season := range seasons {
			if factors[season] > factors[peakSeason] {
				peakSeason = season
			}
		}

		projected := make(map[string]int, len(seasons))
		for _, season := range seasons {
			projected[season] = int(float64(p.Quantity) * factors[season])
		}

		action := "Decrease"
		if factors[currentSeason] < 1 {
			action = "Increase"
			increaseCount++
		}

		result.Products = append(result.Products, domain.SeasonalProduct{
			ProductID:           p.ID,
			Name:                p.Name,
			Category:            p.Category,
			CurrentQuantity:     p.Quantity,
			CurrentSeason:       currentSeason,
			PeakSeason:          peakSeason,
			SeasonalFactors:     factors,
			ProjectedQuantities: projected,
			Recommendation:      fmt.Sprintf("%s inventory before %s", action, peakSeason),
		})
	}

	result.Stats = []domain.Stat{
		{Label: "Products", Value: len(result.Products)},
		{Label: "Current Season", Value: currentSeason},
		{Label: "Build-Up Candidates", Value: increaseCount},
	}

	return result
}
