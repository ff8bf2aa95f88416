package simulation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/lalaji/replenish/internal/domain"
)

// Fixed cost assumptions shared by the EOQ and reordering math.
const (
	orderingCostPerEvent  = 50.0 // currency units per order event
	annualHoldingCostRate = 0.25 // fraction of unit cost held per year
	daysPerYear           = 365
)

// Margin returns the margin percentage rounded to two decimals. A zero price
// returns 0 rather than dividing by zero.
func Margin(price, costPrice float64) float64 {
	if price == 0 {
		return 0
	}
	return round2((price - costPrice) / price * 100)
}

// EOQ computes the economic order quantity from daily demand and lead time
// using the fixed ordering/holding-cost assumptions above, floored at one
// lead time of demand so a reorder always covers the gap until delivery.
func EOQ(dailyDemand float64, leadTimeDays int) int {
	if dailyDemand <= 0 || leadTimeDays <= 0 {
		return 0
	}

	annualDemand := dailyDemand * daysPerYear
	holdingCost := orderingCostPerEvent * annualHoldingCostRate
	qty := math.Sqrt(2 * annualDemand * orderingCostPerEvent / holdingCost)

	if leadTimeDemand := dailyDemand * float64(leadTimeDays); qty < leadTimeDemand {
		qty = leadTimeDemand
	}

	return int(math.Ceil(qty))
}

// ReorderPoint is the stock level at which a new order should be placed.
func ReorderPoint(dailyDemand float64, leadTimeDays, safetyStock int) int {
	point := dailyDemand*float64(leadTimeDays) + float64(safetyStock)
	if point < 0 {
		return 0
	}
	return int(math.Ceil(point))
}

// ClassifyRisk is the single canonical risk function. It classifies the ratio
// of value to threshold: <=0.5 High, <=1.0 Medium, otherwise Low. The stockout
// scenario passes days of cover against a day threshold; other callers pass
// quantity against reorder level. Non-positive inputs degrade to Low rather
// than flagging spurious urgency.
func ClassifyRisk(value, threshold float64) domain.RiskLevel {
	if threshold <= 0 || value < 0 {
		return domain.RiskLow
	}

	ratio := value / threshold
	switch {
	case ratio <= 0.5:
		return domain.RiskHigh
	case ratio <= 1.0:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// riskRank orders High before Medium before Low for sorting.
func riskRank(r domain.RiskLevel) int {
	switch r {
	case domain.RiskHigh:
		return 0
	case domain.RiskMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation synthesis. Pure text, deterministic for identical inputs.

func riskRecommendation(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskHigh:
		return "Urgent: reorder immediately to avoid a stockout."
	case domain.RiskMedium:
		return "Monitor closely and schedule a reorder soon."
	default:
		return "Stock levels are healthy. No action needed."
	}
}

func reorderRecommendation(quantity, reorderPoint, eoq, daysUntilReorder int) string {
	if quantity <= reorderPoint {
		return fmt.Sprintf("Reorder Now: Place an order for %d units immediately.", eoq)
	}
	return fmt.Sprintf("No action needed. Reorder %d units in %d days.", eoq, daysUntilReorder)
}

func pricingRecommendation(currency string, currentPrice, optimalPrice float64) string {
	base := currentPrice
	if base == 0 {
		base = 1
	}
	switch {
	case math.Abs(optimalPrice-currentPrice)/base <= priceChangeThreshold:
		return "The current price is already optimal."
	case optimalPrice > currentPrice:
		return fmt.Sprintf("Consider increasing price to %s%.2f to maximize profit.", currency, optimalPrice)
	default:
		return fmt.Sprintf("Consider decreasing price to %s%.2f to increase volume and profit.", currency, optimalPrice)
	}
}

func expiryRecommendation(criticalBatches, warningBatches int) string {
	switch {
	case criticalBatches > 0:
		return fmt.Sprintf("Immediate action required: %d batches expiring within 7 days", criticalBatches)
	case warningBatches > 0:
		return fmt.Sprintf("Monitor closely: %d batches expiring within 30 days", warningBatches)
	default:
		return "All batches have good shelf life remaining"
	}
}

func urgencyRecommendation(urgent bool) string {
	if urgent {
		return "Action recommended: review this item and adjust inventory."
	}
	return "No immediate action needed."
}

// round2 rounds to two decimal places. Money figures go through decimal so
// repeated aggregation does not accumulate float drift.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
