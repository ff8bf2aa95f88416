package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lalaji/replenish/internal/cache"
	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

// OrderItemRequest is one requested line item.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderService creates and completes customer and supplier orders. Order
// totals are recomputed from line items at creation time using the product
// price snapshot; they are not kept in sync afterwards.
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	cache    cache.StatsCache
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, statsCache cache.StatsCache) *OrderService {
	if statsCache == nil {
		statsCache = cache.NewNoopStatsCache()
	}
	return &OrderService{products: products, orders: orders, cache: statsCache}
}

// CreateOrder validates the requested items, snapshots prices, and persists
// the order. Customer orders decrement stock at creation; supplier orders
// receive stock on completion.
func (s *OrderService) CreateOrder(ctx context.Context, kind, counterparty string, itemReqs []OrderItemRequest) (*domain.Order, error) {
	if kind != domain.OrderKindCustomer && kind != domain.OrderKindSupplier {
		return nil, fmt.Errorf("unknown order kind: %q", kind)
	}
	if counterparty == "" {
		return nil, errors.New("counterparty name is required")
	}
	if len(itemReqs) == 0 {
		return nil, errors.New("order requires at least one item")
	}

	items := make([]domain.OrderItem, 0, len(itemReqs))
	total := decimal.Zero
	for _, req := range itemReqs {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %d", req.Quantity, req.ProductID)
		}

		product, err := s.products.GetProductByID(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolving product %d: %w", req.ProductID, err)
		}
		if kind == domain.OrderKindCustomer && product.Quantity < req.Quantity {
			return nil, fmt.Errorf("insufficient stock for product %s: %w", product.Name, repository.ErrInsufficientStock)
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  req.Quantity,
			Price:     product.Price,
		})
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(req.Quantity))))
	}

	order := &domain.Order{
		Kind:         kind,
		Counterparty: counterparty,
		OrderDate:    time.Now().UTC(),
		Status:       domain.OrderStatusPending,
		TotalAmount:  total.Round(2).InexactFloat64(),
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		return nil, fmt.Errorf("creating %s order: %w", kind, err)
	}

	s.invalidateStats(ctx)

	log.Info().
		Str("kind", kind).
		Int64("order_id", order.ID).
		Float64("total", order.TotalAmount).
		Msg("order created")

	return order, nil
}

// CompleteOrder marks a pending order completed. Supplier completion
// increments product stock by the ordered quantities.
func (s *OrderService) CompleteOrder(ctx context.Context, id int64) error {
	if err := s.orders.CompleteOrder(ctx, id); err != nil {
		return fmt.Errorf("completing order %d: %w", id, err)
	}

	s.invalidateStats(ctx)
	return nil
}

// ListOrders returns recent orders, optionally filtered by kind.
func (s *OrderService) ListOrders(ctx context.Context, kind string, limit int) ([]domain.Order, error) {
	if kind != "" && kind != domain.OrderKindCustomer && kind != domain.OrderKindSupplier {
		return nil, fmt.Errorf("unknown order kind: %q", kind)
	}
	return s.orders.ListOrders(ctx, kind, limit)
}

func (s *OrderService) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
