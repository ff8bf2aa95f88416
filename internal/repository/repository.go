package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lalaji/replenish/internal/domain"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a quantity adjustment would
	// drive a product's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository provides catalog reads and the two scoped writes the
// mutation applier is allowed to issue. AdjustQuantity must be atomic at
// single-product granularity: concurrent adjustments of the same product
// must not lose updates.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	AdjustQuantity(ctx context.Context, id int64, delta int) error
	SetPrice(ctx context.Context, id int64, price float64) error
	InventoryTotals(ctx context.Context) (*InventoryTotals, error)
}

// InventoryTotals carries store-wide aggregates for the stats endpoint.
type InventoryTotals struct {
	TotalItems     int
	LowStockCount  int
	InventoryValue float64
	TotalQuantity  int
}

// OrderRepository provides order writes and the sales aggregates the engine
// and report aggregator consume.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	CompleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context, kind string, limit int) ([]domain.Order, error)
	// SumQuantitySold aggregates units sold per product from completed-order
	// line items placed at or after since.
	SumQuantitySold(ctx context.Context, since time.Time) (map[int64]int, error)
	// CompletedQuantity is the total quantity across all completed-order items.
	CompletedQuantity(ctx context.Context) (int, error)
	// SalesByBucket groups completed-order items at or after since into
	// calendar buckets keyed by BucketLabel(period, orderDate). Buckets with
	// no activity are absent; callers fill gaps.
	SalesByBucket(ctx context.Context, period string, since time.Time) (map[string]domain.BucketTotals, error)
}

// StoreRepository manages store configurations and the active-store flag.
type StoreRepository interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetActiveStore(ctx context.Context) (*domain.Store, error)
	SetActiveStore(ctx context.Context, countryCode string) error
}

// Reporting periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// BucketLabel formats t into the calendar bucket label for the period:
// daily "2006-01-02", weekly ISO "2006-W02", monthly "2006-01".
func BucketLabel(period string, t time.Time) string {
	switch period {
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return weekLabel(year, week)
	case PeriodMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// BucketLabels returns the last n bucket labels for the period ending at now,
// oldest first. The series always has exactly n entries.
func BucketLabels(period string, now time.Time, n int) []string {
	labels := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		var t time.Time
		switch period {
		case PeriodWeekly:
			t = now.AddDate(0, 0, -7*i)
		case PeriodMonthly:
			t = monthStart(now, -i)
		default:
			t = now.AddDate(0, 0, -i)
		}
		labels = append(labels, BucketLabel(period, t))
	}
	return labels
}

// PeriodWindow returns the bucket count and the window start for a period
// ending at now: 30 daily buckets, 12 weekly, 12 monthly.
func PeriodWindow(period string, now time.Time) (int, time.Time) {
	switch period {
	case PeriodWeekly:
		return 12, now.AddDate(0, 0, -7*11)
	case PeriodMonthly:
		return 12, monthStart(now, -11)
	default:
		return 30, now.AddDate(0, 0, -29)
	}
}

func weekLabel(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

// monthStart returns the first day of the month offset months away from t.
// Anchoring to day 1 before the month arithmetic keeps a month-end t from
// being normalized into a neighboring month.
func monthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}
