package simulation

import (
	"fmt"
	"sort"

	"github.com/lalaji/replenish/internal/domain"
)

// batch status day thresholds
const (
	expiryCriticalDays = 7
	expiryWarningDays  = 30
)

// shelfLifeDays returns the base shelf life and per-batch stagger for a
// category. Dairy turns over fastest, confectionery slowest.
func shelfLifeDays(category string) (base, step int) {
	switch category {
	case "Dairy":
		return 14, 7
	case "Confectionery":
		return 180, 30
	default:
		return 90, 14
	}
}

func (e *Engine) runExpiry(snap *Snapshot, store domain.Store) *domain.ExpiryResult {
	result := &domain.ExpiryResult{
		Title:       fmt.Sprintf("Expiry Tracking Analysis - %s", store.StoreName),
		Description: "This simulation tracks product expiration dates and suggests actions to minimize waste.",
		Products:    make([]domain.ExpiryProduct, 0, len(snap.Products)),
	}

	today := e.now()
	totalAtRisk := 0.0
	criticalTotal := 0

	for _, p := range snap.Products {
		numBatches := p.Quantity / 5
		if numBatches < 1 {
			numBatches = 1
		}
		if numBatches > 5 {
			numBatches = 5
		}

		base, step := shelfLifeDays(p.Category)

		batches := make([]domain.Batch, 0, numBatches)
		remaining := p.Quantity
		totalValue := 0.0
		valueAtRisk := 0.0
		critical := 0
		warning := 0

		for i := 0; i < numBatches; i++ {
			batchSize := remaining / (numBatches - i)
			remaining -= batchSize

			expiryDays := base + i*step

			status := "Good"
			switch {
			case expiryDays <= expiryCriticalDays:
				status = "Critical"
				critical++
			case expiryDays <= expiryWarningDays:
				status = "Warning"
				warning++
			}

			batches = append(batches, domain.Batch{
				BatchID:         fmt.Sprintf("BT-%d-%d", p.ID, i+1),
				Quantity:        batchSize,
				ExpiryDate:      today.AddDate(0, 0, expiryDays).Format("2006-01-02"),
				DaysUntilExpiry: expiryDays,
				Status:          status,
			})

			batchValue := float64(batchSize) * p.CostPrice
			totalValue += batchValue
			if expiryDays <= expiryWarningDays {
				valueAtRisk += batchValue
			}
		}

		totalAtRisk += valueAtRisk
		criticalTotal += critical

		result.Products = append(result.Products, domain.ExpiryProduct{
			ProductID:      p.ID,
			Name:           p.Name,
			Category:       p.Category,
			TotalQuantity:  p.Quantity,
			Batches:        batches,
			TotalValue:     round2(totalValue),
			ValueAtRisk:    round2(valueAtRisk),
			Recommendation: expiryRecommendation(critical, warning),
		})
	}

	// highest value at risk first
	sort.SliceStable(result.Products, func(i, j int) bool {
		return result.Products[i].ValueAtRisk > result.Products[j].ValueAtRisk
	})

	result.Stats = []domain.Stat{
		{Label: "Products", Value: len(result.Products)},
		{Label: "Critical Batches", Value: criticalTotal},
		{Label: "Total Value at Risk", Value: round2(totalAtRisk)},
	}

	return result
}
