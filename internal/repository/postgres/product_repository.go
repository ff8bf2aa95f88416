package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	id, name, sku, category, quantity, price, cost_price,
	distributor_id, reorder_level, expiry_date, last_updated
`

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error getting product %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepository) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	// Case-insensitive substring match, first hit wins
	query := `SELECT ` + productColumns + ` FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error getting product by name: %w", err)
	}

	return &product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, sku, category, quantity, price, cost_price,
			distributor_id, reorder_level, expiry_date, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, last_updated
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.SKU, p.Category, p.Quantity, p.Price, p.CostPrice,
		p.DistributorID, p.ReorderLevel, p.ExpiryDate,
	).Scan(&p.ID, &p.LastUpdated)
	if err != nil {
		return fmt.Errorf("error creating product: %w", err)
	}

	return nil
}

// AdjustQuantity applies an atomic increment scoped to one product. The guard
// in the WHERE clause refuses adjustments that would drive quantity negative,
// so concurrent adjusters cannot lose updates or overdraw stock.
func (r *productRepository) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	query := `
		UPDATE products
		SET quantity = quantity + $2, last_updated = NOW()
		WHERE id = $1 AND quantity + $2 >= 0
	`

	res, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("error adjusting quantity for product %d: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking adjustment for product %d: %w", id, err)
	}
	if rows == 0 {
		if _, getErr := r.GetProductByID(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrInsufficientStock
	}

	return nil
}

func (r *productRepository) SetPrice(ctx context.Context, id int64, price float64) error {
	query := `UPDATE products SET price = $2, last_updated = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, price)
	if err != nil {
		return fmt.Errorf("error setting price for product %d: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking price update for product %d: %w", id, err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *productRepository) InventoryTotals(ctx context.Context) (*repository.InventoryTotals, error) {
	query := `
		SELECT
			COUNT(*) AS total_items,
			COUNT(*) FILTER (WHERE quantity <= reorder_level) AS low_stock_count,
			COALESCE(SUM(quantity * cost_price), 0) AS inventory_value,
			COALESCE(SUM(quantity), 0) AS total_quantity
		FROM products
	`

	var totals repository.InventoryTotals
	row := r.db.QueryRowxContext(ctx, query)
	if err := row.Scan(&totals.TotalItems, &totals.LowStockCount, &totals.InventoryValue, &totals.TotalQuantity); err != nil {
		return nil, fmt.Errorf("error getting inventory totals: %w", err)
	}

	return &totals, nil
}
