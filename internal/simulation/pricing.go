package simulation

import (
	"github.com/lalaji/replenish/internal/domain"
)

// priceChangeThreshold is the materiality threshold: price moves at or below
// 2% are treated as already optimal and suppressed by the applier.
const priceChangeThreshold = 0.02

// price multipliers evaluated around the current price, ascending
var priceFactors = []float64{0.9, 0.95, 1.0, 1.05, 1.1}

func (e *Engine) runPricing(snap *Snapshot, store domain.Store) *domain.PricingResult {
	result := &domain.PricingResult{
		Title:       "Pricing Optimization Analysis",
		Description: "This simulation analyzes current pricing strategies and suggests optimizations to maximize profitability.",
		Currency:    store.CurrencySymbol,
		Products:    make([]domain.PricingProduct, 0, len(snap.Products)),
	}

	changeCandidates := 0
	for _, p := range snap.Products {
		pricePoints := make([]domain.PricePoint, 0, len(priceFactors))
		optimalPrice := p.Price
		maxProfit := 0.0

		for _, factor := range priceFactors {
			testPrice := round2(p.Price * factor)

			// elastic demand: higher price, fewer units
			quantityFactor := 1.15 - factor
			estimatedQuantity := int(float64(p.Quantity) * quantityFactor)

			profit := (testPrice - p.CostPrice) * float64(estimatedQuantity)

			pricePoints = append(pricePoints, domain.PricePoint{
				Price:             testPrice,
				EstimatedQuantity: estimatedQuantity,
				Margin:            Margin(testPrice, p.CostPrice),
				Profit:            round2(profit),
			})

			// strict improvement only: ties keep the first-seen multiplier
			if profit > maxProfit {
				maxProfit = profit
				optimalPrice = testPrice
			}
		}

		recommendation := pricingRecommendation(store.CurrencySymbol, p.Price, optimalPrice)
		if recommendation != "The current price is already optimal." {
			changeCandidates++
		}

		result.Products = append(result.Products, domain.PricingProduct{
			ProductID:      p.ID,
			Name:           p.Name,
			Category:       p.Category,
			CurrentPrice:   p.Price,
			CostPrice:      p.CostPrice,
			CurrentMargin:  Margin(p.Price, p.CostPrice),
			PricePoints:    pricePoints,
			OptimalPrice:   optimalPrice,
			Recommendation: recommendation,
		})
	}

	result.Stats = []domain.Stat{
		{Label: "Products", Value: len(result.Products)},
		{Label: "Price Change Candidates", Value: changeCandidates},
	}

	return result
}
