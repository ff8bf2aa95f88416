package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lalaji/replenish/internal/cache"
	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

// ErrUnknownReport is returned for a report tag outside the seven supported
// ones.
var (
	ErrUnknownReport = errors.New("unknown report type")
	ErrUnknownPeriod = errors.New("unknown report period")
)

// minTurnoverRate is the minimum displayable turnover figure.
const minTurnoverRate = 0.1

// ReportService reshapes order history and catalog state into label/series
// reports and the store-wide stats summary. All reads are side-effect free:
// generating the same report twice over unchanged data yields identical
// output.
type ReportService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	stores   repository.StoreRepository
	cache    cache.StatsCache
	now      func() time.Time
}

func NewReportService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	stores repository.StoreRepository,
	statsCache cache.StatsCache,
) *ReportService {
	if statsCache == nil {
		statsCache = cache.NewNoopStatsCache()
	}
	return &ReportService{
		products: products,
		orders:   orders,
		stores:   stores,
		cache:    statsCache,
		now:      time.Now,
	}
}

// GenerateReport builds the label/series report for the given type and
// period. Time-bucketed reports always return the full bucket count for the
// period (30 daily, 12 weekly, 12 monthly) with zero-filled gaps.
func (s *ReportService) GenerateReport(ctx context.Context, reportType, period string) (*domain.Report, error) {
	switch period {
	case repository.PeriodDaily, repository.PeriodWeekly, repository.PeriodMonthly:
	case "":
		period = repository.PeriodWeekly
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}

	switch reportType {
	case domain.ScenarioSeasonal:
		return s.unitsSoldReport(ctx, period, "Units Sold", func(t domain.BucketTotals) float64 {
			return float64(t.Quantity)
		})
	case domain.ScenarioSales:
		return s.unitsSoldReport(ctx, period, "Sales", func(t domain.BucketTotals) float64 {
			return t.Revenue
		})
	case domain.ScenarioStockout:
		return s.stockoutReport(ctx)
	case domain.ScenarioPricing:
		return s.pricingReport(ctx)
	case domain.ScenarioReordering:
		return s.reorderingReport(ctx)
	case domain.ScenarioExpiry:
		return s.expiryReport(ctx)
	case domain.ScenarioRestructure:
		return s.restructureReport(ctx)
	default:
		return nil, ErrUnknownReport
	}
}

func (s *ReportService) unitsSoldReport(ctx context.Context, period, label string, pick func(domain.BucketTotals) float64) (*domain.Report, error) {
	now := s.now().UTC()
	n, since := repository.PeriodWindow(period, now)

	buckets, err := s.orders.SalesByBucket(ctx, period, since)
	if err != nil {
		return nil, fmt.Errorf("aggregating sales buckets: %w", err)
	}

	labels := repository.BucketLabels(period, now, n)
	data := make([]float64, len(labels))
	for i, l := range labels {
		data[i] = pick(buckets[l])
	}

	return &domain.Report{
		Labels:   labels,
		Datasets: []domain.Dataset{{Label: label, Data: data}},
	}, nil
}

// stockoutReport charts days of stock left per product from actual sales over
// the last 30 days.
func (s *ReportService) stockoutReport(ctx context.Context) (*domain.Report, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	const windowDays = 30
	sold, err := s.orders.SumQuantitySold(ctx, s.now().UTC().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, fmt.Errorf("aggregating sales: %w", err)
	}

	labels := make([]string, 0, len(products))
	data := make([]float64, 0, len(products))
	for _, p := range products {
		daily := float64(sold[p.ID]) / windowDays
		if daily < 0.1 {
			daily = 0.1
		}
		daysLeft := float64(p.Quantity) / daily
		labels = append(labels, p.Name)
		data = append(data, math.Round(daysLeft*10)/10)
	}

	return &domain.Report{
		Labels:   labels,
		Datasets: []domain.Dataset{{Label: "Days of Stock Left", Data: data}},
	}, nil
}

// pricingReport charts price against units sold per product.
func (s *ReportService) pricingReport(ctx context.Context) (*domain.Report, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	sold, err := s.orders.SumQuantitySold(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("aggregating sales: %w", err)
	}

	labels := make([]string, 0, len(products))
	prices := make([]float64, 0, len(products))
	unitsSold := make([]float64, 0, len(products))
	for _, p := range products {
		labels = append(labels, p.Name)
		prices = append(prices, p.Price)
		unitsSold = append(unitsSold, float64(sold[p.ID]))
	}

	return &domain.Report{
		Labels: labels,
		Datasets: []domain.Dataset{
			{Label: "Price", Data: prices},
			{Label: "Units Sold", Data: unitsSold},
		},
	}, nil
}

// reorderingReport lists the products at or below their reorder level.
func (s *ReportService) reorderingReport(ctx context.Context) (*domain.Report, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	labels := []string{}
	data := []float64{}
	for _, p := range products {
		if p.Quantity <= p.ReorderLevel {
			labels = append(labels, p.Name)
			data = append(data, float64(p.Quantity))
		}
	}

	return &domain.Report{
		Labels:   labels,
		Datasets: []domain.Dataset{{Label: "Quantity", Data: data}},
	}, nil
}

// expiryReport charts days to expiry for products carrying an expiry date, or
// a warning when the catalog has none.
func (s *ReportService) expiryReport(ctx context.Context) (*domain.Report, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	now := s.now().UTC()
	labels := []string{}
	data := []float64{}
	for _, p := range products {
		if p.ExpiryDate == nil {
			continue
		}
		labels = append(labels, p.Name)
		data = append(data, math.Floor(p.ExpiryDate.Sub(now).Hours()/24))
	}

	if len(labels) == 0 {
		return &domain.Report{
			Warning: "No expiry data available. Add expiry_date to products to enable this report.",
		}, nil
	}

	return &domain.Report{
		Labels:   labels,
		Datasets: []domain.Dataset{{Label: "Days to Expiry", Data: data}},
	}, nil
}

// restructureReport charts stock allocation per category.
func (s *ReportService) restructureReport(ctx context.Context) (*domain.Report, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	totals := map[string]float64{}
	order := []string{}
	for _, p := range products {
		if _, seen := totals[p.Category]; !seen {
			order = append(order, p.Category)
		}
		totals[p.Category] += float64(p.Quantity)
	}

	data := make([]float64, len(order))
	for i, cat := range order {
		data[i] = totals[cat]
	}

	return &domain.Report{
		Labels:   order,
		Datasets: []domain.Dataset{{Label: "Stock Allocation", Data: data}},
	}, nil
}

// GetInventoryStats returns the store-wide summary, cached when a cache is
// configured.
func (s *ReportService) GetInventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	if stats, ok, err := s.cache.Get(ctx); err == nil && ok {
		return stats, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("stats cache get failed")
	}

	totals, err := s.products.InventoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting inventory totals: %w", err)
	}

	completed, err := s.orders.CompletedQuantity(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting completed quantity: %w", err)
	}

	turnover := minTurnoverRate
	if totals.TotalQuantity > 0 {
		turnover = math.Round(float64(completed)/float64(totals.TotalQuantity)*10) / 10
		if turnover < minTurnoverRate {
			turnover = minTurnoverRate
		}
	}

	store, err := s.stores.GetActiveStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving active store: %w", err)
	}

	stats := &domain.InventoryStats{
		TotalItems:     totals.TotalItems,
		LowStockCount:  totals.LowStockCount,
		InventoryValue: totals.InventoryValue,
		TurnoverRate:   turnover,
		CurrencySymbol: store.CurrencySymbol,
	}

	if err := s.cache.Set(ctx, stats); err != nil {
		log.Warn().Err(err).Msg("stats cache set failed")
	}

	return stats, nil
}
