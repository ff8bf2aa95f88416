package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

// Snapshot is a point-in-time read of the catalog plus per-product sales
// aggregates over the lookback window. It is a value: algorithms must not
// assume it reflects writes made by a concurrently running mutation step.
type Snapshot struct {
	Products   []domain.Product
	UnitsSold  map[int64]int
	TakenAt    time.Time
	WindowDays int
}

// Product looks up a product in the snapshot by id.
func (s *Snapshot) Product(id int64) (domain.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Loader reads snapshots from the repositories.
type Loader struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewLoader(products repository.ProductRepository, orders repository.OrderRepository) *Loader {
	return &Loader{products: products, orders: orders}
}

// Load reads all products and the units-sold aggregate for the window.
func (l *Loader) Load(ctx context.Context, lookbackDays int) (*Snapshot, error) {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}

	now := time.Now().UTC()

	products, err := l.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}

	sold, err := l.orders.SumQuantitySold(ctx, now.AddDate(0, 0, -lookbackDays))
	if err != nil {
		return nil, fmt.Errorf("loading sales aggregates: %w", err)
	}

	return &Snapshot{
		Products:   products,
		UnitsSold:  sold,
		TakenAt:    now,
		WindowDays: lookbackDays,
	}, nil
}
