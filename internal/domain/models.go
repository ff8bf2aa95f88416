package domain

import "time"

// Store represents a store configuration. Exactly one store is active at a
// time; its name and currency symbol are threaded into simulation and report
// calls as explicit context.
type Store struct {
	ID             int64  `json:"id" db:"id"`
	CountryCode    string `json:"country_code" db:"country_code"`
	CountryName    string `json:"country_name" db:"country_name"`
	StoreName      string `json:"store_name" db:"store_name"`
	CurrencySymbol string `json:"currency_symbol" db:"currency_symbol"`
	IsActive       bool   `json:"is_active" db:"is_active"`
}

// Product represents a catalog item. Price >= CostPrice is expected but not
// enforced; margin simply reports as non-positive when violated.
type Product struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	SKU           string     `json:"sku" db:"sku"`
	Category      string     `json:"category" db:"category"`
	Quantity      int        `json:"quantity" db:"quantity"`
	Price         float64    `json:"price" db:"price"`
	CostPrice     float64    `json:"cost_price" db:"cost_price"`
	DistributorID int64      `json:"distributor_id" db:"distributor_id"`
	ReorderLevel  int        `json:"reorder_level" db:"reorder_level"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	LastUpdated   time.Time  `json:"last_updated" db:"last_updated"`
}

// Order kinds
const (
	OrderKindCustomer = "customer"
	OrderKindSupplier = "supplier"
)

// Order statuses. Status is free text at the engine layer; these are the
// values the order service writes.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

// Order represents a customer or supplier order. TotalAmount is derived from
// the items at creation time and not kept in sync afterwards.
type Order struct {
	ID           int64     `json:"id" db:"id"`
	Kind         string    `json:"kind" db:"kind"`
	Counterparty string    `json:"counterparty" db:"counterparty"`
	OrderDate    time.Time `json:"order_date" db:"order_date"`
	Status       string    `json:"status" db:"status"`
	TotalAmount  float64   `json:"total_amount" db:"total_amount"`
}

// OrderItem links an order to a product. Price is a snapshot of the product
// price at order time, not a live reference.
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"order_id" db:"order_id"`
	ProductID int64   `json:"product_id" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Price     float64 `json:"price" db:"price"`
}

// InventoryStats is the store-wide summary exposed by the stats endpoint.
type InventoryStats struct {
	TotalItems     int     `json:"total_items"`
	LowStockCount  int     `json:"low_stock_count"`
	InventoryValue float64 `json:"inventory_value"`
	TurnoverRate   float64 `json:"turnover_rate"`
	CurrencySymbol string  `json:"currency_symbol"`
}

// BucketTotals holds sales aggregates for one calendar bucket.
type BucketTotals struct {
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Dataset is one labeled series of a report.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Report is the label/series shape consumed by the dashboard.
type Report struct {
	Labels   []string  `json:"labels,omitempty"`
	Datasets []Dataset `json:"datasets,omitempty"`
	Warning  string    `json:"warning,omitempty"`
}

// Stat is a single headline figure shown alongside a report or scenario.
type Stat struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}
