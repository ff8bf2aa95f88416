package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

// Store is an in-memory implementation of the repository interfaces. It backs
// tests and dev mode (DB_DRIVER=memory); the server uses PostgreSQL otherwise.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	products   map[int64]domain.Product
	orders     map[int64]domain.Order
	orderItems map[int64][]domain.OrderItem
	stores     []domain.Store
}

func New() *Store {
	return &Store{
		nextID:     1,
		products:   make(map[int64]domain.Product),
		orders:     make(map[int64]domain.Order),
		orderItems: make(map[int64][]domain.OrderItem),
	}
}

// NewSeeded builds a store pre-loaded with the demo catalog. Categories match
// the seasonal factor and shelf-life tables used by the scenario algorithms.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	s.stores = []domain.Store{
		{ID: 1, CountryCode: "IN", CountryName: "India", StoreName: "Lalaji", CurrencySymbol: "₹", IsActive: true},
		{ID: 2, CountryCode: "ID", CountryName: "Indonesia", StoreName: "Toko Lalaji", CurrencySymbol: "Rp", IsActive: false},
		{ID: 3, CountryCode: "US", CountryName: "United States", StoreName: "Lalaji Mart", CurrencySymbol: "$", IsActive: false},
	}

	seed := []domain.Product{
		{Name: "Milk Chocolate Bar", SKU: "SKU-CHOC-01", Category: "Confectionery", Quantity: 120, Price: 45, CostPrice: 28, DistributorID: 1, ReorderLevel: 30},
		{Name: "Gulab Jamun Mix", SKU: "SKU-GJM-01", Category: "Confectionery", Quantity: 60, Price: 95, CostPrice: 62, DistributorID: 1, ReorderLevel: 20},
		{Name: "Toor Dal 1kg", SKU: "SKU-DAL-01", Category: "Staples", Quantity: 200, Price: 160, CostPrice: 120, DistributorID: 2, ReorderLevel: 50},
		{Name: "Basmati Rice 5kg", SKU: "SKU-RICE-01", Category: "Staples", Quantity: 80, Price: 620, CostPrice: 470, DistributorID: 2, ReorderLevel: 25},
		{Name: "Full Cream Milk 1L", SKU: "SKU-MILK-01", Category: "Dairy", Quantity: 45, Price: 66, CostPrice: 52, DistributorID: 3, ReorderLevel: 40},
		{Name: "Paneer 200g", SKU: "SKU-PANEER-01", Category: "Dairy", Quantity: 25, Price: 90, CostPrice: 68, DistributorID: 3, ReorderLevel: 20},
		{Name: "Bath Soap", SKU: "SKU-SOAP-01", Category: "Essentials", Quantity: 150, Price: 38, CostPrice: 24, DistributorID: 4, ReorderLevel: 35},
		{Name: "Toothpaste 100g", SKU: "SKU-TP-01", Category: "Essentials", Quantity: 18, Price: 55, CostPrice: 36, DistributorID: 4, ReorderLevel: 30},
	}

	for i := range seed {
		seed[i].LastUpdated = now
		_ = s.CreateProduct(context.Background(), &seed[i])
	}

	return s
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *Store) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	var match *domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			if match == nil || p.ID < match.ID {
				out := p
				match = &out
			}
		}
	}
	if match == nil {
		return nil, repository.ErrNotFound
	}

	return match, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.allocID()
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now().UTC()
	}
	s.products[p.ID] = *p

	return nil
}

func (s *Store) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return repository.ErrInsufficientStock
	}

	p.Quantity += delta
	p.LastUpdated = time.Now().UTC()
	s.products[id] = p

	return nil
}

func (s *Store) SetPrice(ctx context.Context, id int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}

	p.Price = price
	p.LastUpdated = time.Now().UTC()
	s.products[id] = p

	return nil
}

func (s *Store) InventoryTotals(ctx context.Context) (*repository.InventoryTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := &repository.InventoryTotals{}
	for _, p := range s.products {
		totals.TotalItems++
		totals.TotalQuantity += p.Quantity
		totals.InventoryValue += float64(p.Quantity) * p.CostPrice
		if p.Quantity <= p.ReorderLevel {
			totals.LowStockCount++
		}
	}

	return totals, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.Kind == domain.OrderKindCustomer {
		for _, item := range items {
			p, ok := s.products[item.ProductID]
			if !ok {
				return repository.ErrNotFound
			}
			if p.Quantity < item.Quantity {
				return repository.ErrInsufficientStock
			}
		}
	}

	order.ID = s.allocID()
	s.orders[order.ID] = *order

	stored := make([]domain.OrderItem, len(items))
	for i, item := range items {
		item.ID = s.allocID()
		item.OrderID = order.ID
		stored[i] = item
		items[i] = item

		if order.Kind == domain.OrderKindCustomer {
			p := s.products[item.ProductID]
			p.Quantity -= item.Quantity
			p.LastUpdated = time.Now().UTC()
			s.products[item.ProductID] = p
		}
	}
	s.orderItems[order.ID] = stored

	return nil
}

func (s *Store) CompleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || order.Status == domain.OrderStatusCompleted {
		return repository.ErrNotFound
	}

	order.Status = domain.OrderStatusCompleted
	s.orders[id] = order

	if order.Kind == domain.OrderKindSupplier {
		for _, item := range s.orderItems[id] {
			p, ok := s.products[item.ProductID]
			if !ok {
				continue
			}
			p.Quantity += item.Quantity
			p.LastUpdated = time.Now().UTC()
			s.products[item.ProductID] = p
		}
	}

	return nil
}

func (s *Store) ListOrders(ctx context.Context, kind string, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if kind != "" && o.Kind != kind {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })
	if len(orders) > limit {
		orders = orders[:limit]
	}

	return orders, nil
}

func (s *Store) SumQuantitySold(ctx context.Context, since time.Time) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sold := make(map[int64]int)
	for _, order := range s.orders {
		if !s.countsAsSale(order, since) {
			continue
		}
		for _, item := range s.orderItems[order.ID] {
			sold[item.ProductID] += item.Quantity
		}
	}

	return sold, nil
}

func (s *Store) CompletedQuantity(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, order := range s.orders {
		if order.Kind != domain.OrderKindCustomer || order.Status != domain.OrderStatusCompleted {
			continue
		}
		for _, item := range s.orderItems[order.ID] {
			total += item.Quantity
		}
	}

	return total, nil
}

func (s *Store) SalesByBucket(ctx context.Context, period string, since time.Time) (map[string]domain.BucketTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make(map[string]domain.BucketTotals)
	for _, order := range s.orders {
		if !s.countsAsSale(order, since) {
			continue
		}
		label := repository.BucketLabel(period, order.OrderDate)
		totals := buckets[label]
		for _, item := range s.orderItems[order.ID] {
			totals.Quantity += item.Quantity
			totals.Revenue += float64(item.Quantity) * item.Price
		}
		buckets[label] = totals
	}

	return buckets, nil
}

func (s *Store) countsAsSale(order domain.Order, since time.Time) bool {
	return order.Kind == domain.OrderKindCustomer &&
		order.Status == domain.OrderStatusCompleted &&
		!order.OrderDate.Before(since)
}

func (s *Store) ListStores(ctx context.Context) ([]domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Store, len(s.stores))
	copy(out, s.stores)

	return out, nil
}

func (s *Store) GetActiveStore(ctx context.Context) (*domain.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.stores {
		if s.stores[i].IsActive {
			out := s.stores[i]
			return &out, nil
		}
	}
	if len(s.stores) > 0 {
		s.stores[0].IsActive = true
		out := s.stores[0]
		return &out, nil
	}

	return nil, repository.ErrNotFound
}

func (s *Store) SetActiveStore(ctx context.Context, countryCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.stores {
		active := s.stores[i].CountryCode == countryCode
		s.stores[i].IsActive = active
		if active {
			found = true
		}
	}
	if !found {
		return repository.ErrNotFound
	}

	return nil
}
