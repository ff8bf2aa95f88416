package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder inserts the order and its items in one transaction. Customer
// orders decrement product stock; the quantity guard makes the insert fail
// instead of overdrawing.
func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO orders (kind, counterparty, order_date, status, total_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		if err := tx.QueryRowxContext(ctx, query,
			order.Kind, order.Counterparty, order.OrderDate, order.Status, order.TotalAmount,
		).Scan(&order.ID); err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			itemQuery := `
				INSERT INTO order_items (order_id, product_id, quantity, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`
			if err := tx.QueryRowxContext(ctx, itemQuery,
				items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].Price,
			).Scan(&items[i].ID); err != nil {
				return fmt.Errorf("error creating order item: %w", err)
			}

			if order.Kind == domain.OrderKindCustomer {
				res, err := tx.ExecContext(ctx, `
					UPDATE products
					SET quantity = quantity - $2, last_updated = NOW()
					WHERE id = $1 AND quantity >= $2
				`, items[i].ProductID, items[i].Quantity)
				if err != nil {
					return fmt.Errorf("error decrementing stock for product %d: %w", items[i].ProductID, err)
				}
				rows, err := res.RowsAffected()
				if err != nil {
					return fmt.Errorf("error checking stock decrement: %w", err)
				}
				if rows == 0 {
					return repository.ErrInsufficientStock
				}
			}
		}

		return nil
	})
}

// CompleteOrder marks the order completed. Supplier order completion receives
// the goods, incrementing product stock by each item's quantity.
func (r *orderRepository) CompleteOrder(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var kind string
		err := tx.QueryRowxContext(ctx,
			`UPDATE orders SET status = $2 WHERE id = $1 AND status <> $2 RETURNING kind`,
			id, domain.OrderStatusCompleted,
		).Scan(&kind)
		if errors.Is(err, sql.ErrNoRows) {
			// Missing order, or one already completed.
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("error completing order %d: %w", id, err)
		}

		if kind == domain.OrderKindSupplier {
			_, err = tx.ExecContext(ctx, `
				UPDATE products p
				SET quantity = p.quantity + oi.quantity, last_updated = NOW()
				FROM order_items oi
				WHERE oi.order_id = $1 AND oi.product_id = p.id
			`, id)
			if err != nil {
				return fmt.Errorf("error receiving supplier order %d: %w", id, err)
			}
		}

		return nil
	})
}

func (r *orderRepository) ListOrders(ctx context.Context, kind string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, kind, counterparty, order_date, status, total_amount
		FROM orders
		WHERE ($1 = '' OR kind = $1)
		ORDER BY order_date DESC
		LIMIT $2
	`

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, kind, limit); err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) SumQuantitySold(ctx context.Context, since time.Time) (map[int64]int, error) {
	query := `
		SELECT oi.product_id, COALESCE(SUM(oi.quantity), 0) AS sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.kind = 'customer' AND o.status = 'Completed' AND o.order_date >= $1
		GROUP BY oi.product_id
	`

	rows, err := r.db.QueryxContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error summing quantity sold: %w", err)
	}
	defer rows.Close()

	sold := make(map[int64]int)
	for rows.Next() {
		var productID int64
		var qty int
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("error scanning quantity sold: %w", err)
		}
		sold[productID] = qty
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quantity sold: %w", err)
	}

	return sold, nil
}

func (r *orderRepository) CompletedQuantity(ctx context.Context) (int, error) {
	query := `
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.kind = 'customer' AND o.status = 'Completed'
	`

	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("error getting completed quantity: %w", err)
	}

	return total, nil
}

func (r *orderRepository) SalesByBucket(ctx context.Context, period string, since time.Time) (map[string]domain.BucketTotals, error) {
	var bucketExpr string
	switch period {
	case repository.PeriodWeekly:
		bucketExpr = `to_char(o.order_date, 'IYYY-"W"IW')`
	case repository.PeriodMonthly:
		bucketExpr = `to_char(o.order_date, 'YYYY-MM')`
	default:
		bucketExpr = `to_char(o.order_date, 'YYYY-MM-DD')`
	}

	query := fmt.Sprintf(`
		SELECT %s AS bucket,
			COALESCE(SUM(oi.quantity), 0) AS quantity,
			COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.kind = 'customer' AND o.status = 'Completed' AND o.order_date >= $1
		GROUP BY bucket
	`, bucketExpr)

	rows, err := r.db.QueryxContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error querying sales buckets: %w", err)
	}
	defer rows.Close()

	buckets := make(map[string]domain.BucketTotals)
	for rows.Next() {
		var label string
		var totals domain.BucketTotals
		if err := rows.Scan(&label, &totals.Quantity, &totals.Revenue); err != nil {
			return nil, fmt.Errorf("error scanning sales bucket: %w", err)
		}
		buckets[label] = totals
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales buckets: %w", err)
	}

	return buckets, nil
}
