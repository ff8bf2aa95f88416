package simulation

// DemandEstimator turns a product plus snapshot context into an estimated
// daily demand. Scenario authors choose the strategy deliberately: the
// heuristic estimator derives demand from current stock the way the stockout
// and reordering scenarios always have, while the historical estimator uses
// actual completed-order aggregates.
type DemandEstimator interface {
	DailyDemand(snap *Snapshot, productID int64, quantity int) float64
}

// HeuristicEstimator estimates demand as a fixed fraction of current stock,
// floored at one unit per day.
type HeuristicEstimator struct {
	Rate float64
}

// NewHeuristicEstimator returns the default 5%-of-stock estimator.
func NewHeuristicEstimator() HeuristicEstimator {
	return HeuristicEstimator{Rate: 0.05}
}

func (e HeuristicEstimator) DailyDemand(_ *Snapshot, _ int64, quantity int) float64 {
	daily := int(float64(quantity) * e.Rate)
	if daily < 1 {
		daily = 1
	}
	return float64(daily)
}

// HistoricalEstimator derives demand from units actually sold inside the
// snapshot's lookback window, floored at 0.1 units per day so downstream
// divisions stay finite.
type HistoricalEstimator struct{}

func (HistoricalEstimator) DailyDemand(snap *Snapshot, productID int64, _ int) float64 {
	if snap == nil || snap.WindowDays <= 0 {
		return 0.1
	}

	daily := float64(snap.UnitsSold[productID]) / float64(snap.WindowDays)
	if daily < 0.1 {
		daily = 0.1
	}
	return daily
}
