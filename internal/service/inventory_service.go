package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lalaji/replenish/internal/cache"
	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

// InventoryService exposes catalog reads and the manual stock adjustment the
// API offers alongside the automated applier.
type InventoryService struct {
	products repository.ProductRepository
	stores   repository.StoreRepository
	cache    cache.StatsCache
}

func NewInventoryService(products repository.ProductRepository, stores repository.StoreRepository, statsCache cache.StatsCache) *InventoryService {
	if statsCache == nil {
		statsCache = cache.NewNoopStatsCache()
	}
	return &InventoryService{products: products, stores: stores, cache: statsCache}
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *InventoryService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetProductByID(ctx, id)
}

func (s *InventoryService) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	if name == "" {
		return nil, errors.New("product name is required")
	}
	return s.products.GetProductByName(ctx, name)
}

func (s *InventoryService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.Name == "" || p.SKU == "" {
		return errors.New("product name and sku are required")
	}
	if p.Quantity < 0 || p.ReorderLevel < 0 {
		return errors.New("quantity and reorder level must be non-negative")
	}

	if err := s.products.CreateProduct(ctx, p); err != nil {
		return err
	}

	s.invalidateStats(ctx)
	return nil
}

// AdjustQuantity applies a manual stock adjustment. Decrements that would
// overdraw stock are refused by the repository.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return errors.New("quantity delta must be non-zero")
	}

	if err := s.products.AdjustQuantity(ctx, id, delta); err != nil {
		return fmt.Errorf("adjusting product %d: %w", id, err)
	}

	s.invalidateStats(ctx)
	return nil
}

// LowStockProducts lists products at or below their reorder level.
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]domain.Product, 0)
	for _, p := range products {
		if p.Quantity <= p.ReorderLevel {
			low = append(low, p)
		}
	}

	return low, nil
}

func (s *InventoryService) ListStores(ctx context.Context) ([]domain.Store, error) {
	return s.stores.ListStores(ctx)
}

func (s *InventoryService) SetActiveStore(ctx context.Context, countryCode string) error {
	if countryCode == "" {
		return errors.New("country code is required")
	}
	return s.stores.SetActiveStore(ctx, countryCode)
}

func (s *InventoryService) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
