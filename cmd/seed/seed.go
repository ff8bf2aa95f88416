package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/urfave/cli/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	id              BIGSERIAL PRIMARY KEY,
	country_code    TEXT NOT NULL UNIQUE,
	country_name    TEXT NOT NULL,
	store_name      TEXT NOT NULL,
	currency_symbol TEXT NOT NULL,
	is_active       BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS products (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	sku            TEXT NOT NULL UNIQUE,
	category       TEXT NOT NULL,
	quantity       INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	price          DOUBLE PRECISION NOT NULL DEFAULT 0,
	cost_price     DOUBLE PRECISION NOT NULL DEFAULT 0,
	distributor_id BIGINT NOT NULL DEFAULT 0,
	reorder_level  INTEGER NOT NULL DEFAULT 0,
	expiry_date    TIMESTAMPTZ,
	last_updated   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	id           BIGSERIAL PRIMARY KEY,
	kind         TEXT NOT NULL,
	counterparty TEXT NOT NULL,
	order_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	status       TEXT NOT NULL DEFAULT 'Pending',
	total_amount DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS order_items (
	id         BIGSERIAL PRIMARY KEY,
	order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id BIGINT NOT NULL REFERENCES products(id),
	quantity   INTEGER NOT NULL CHECK (quantity > 0),
	price      DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_kind_status_date ON orders (kind, status, order_date);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items (product_id);
`

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Println("Creating schema...")
	if _, err := db.ExecContext(c.Context, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Println("Schema created successfully!")
	return nil
}

type seedProduct struct {
	name          string
	sku           string
	category      string
	quantity      int
	price         float64
	costPrice     float64
	distributorID int64
	reorderLevel  int
	expiryDays    int // 0 means no expiry date
}

var seedStores = []struct {
	countryCode, countryName, storeName, currencySymbol string
	isActive                                            bool
}{
	{"IN", "India", "Lalaji", "₹", true},
	{"ID", "Indonesia", "Toko Lalaji", "Rp", false},
	{"US", "United States", "Lalaji Mart", "$", false},
}

var seedProducts = []seedProduct{
	{"Parle-G Biscuits", "SKU-CONF-001", "Confectionery", 120, 10.0, 6.0, 1, 40, 150},
	{"Cadbury Dairy Milk", "SKU-CONF-002", "Confectionery", 80, 45.0, 30.0, 1, 30, 180},
	{"Haldiram Bhujia", "SKU-CONF-003", "Confectionery", 60, 55.0, 35.0, 2, 20, 120},
	{"Basmati Rice 5kg", "SKU-STAP-001", "Staples", 45, 520.0, 400.0, 2, 15, 0},
	{"Toor Dal 1kg", "SKU-STAP-002", "Staples", 70, 140.0, 105.0, 3, 25, 0},
	{"Wheat Flour 10kg", "SKU-STAP-003", "Staples", 35, 380.0, 290.0, 3, 12, 0},
	{"Amul Butter 500g", "SKU-DAIR-001", "Dairy", 40, 275.0, 220.0, 4, 15, 21},
	{"Amul Milk 1L", "SKU-DAIR-002", "Dairy", 90, 66.0, 54.0, 4, 35, 7},
	{"Paneer 200g", "SKU-DAIR-003", "Dairy", 25, 95.0, 70.0, 5, 10, 10},
	{"Detergent Powder 1kg", "SKU-ESSN-001", "Essentials", 55, 120.0, 85.0, 5, 18, 0},
	{"Cooking Oil 1L", "SKU-ESSN-002", "Essentials", 65, 170.0, 135.0, 6, 22, 365},
	{"Bath Soap 4-pack", "SKU-ESSN-003", "Essentials", 100, 140.0, 95.0, 6, 30, 0},
}

func runData(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Seeding stores...")
	if err := insertStores(ctx, tx); err != nil {
		return fmt.Errorf("failed to seed stores: %w", err)
	}

	log.Println("Seeding products...")
	productIDs, err := insertProducts(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	weeks := c.Int("history-weeks")
	log.Printf("Seeding %d weeks of demo orders...\n", weeks)
	if err := insertDemoOrders(ctx, tx, productIDs, weeks); err != nil {
		return fmt.Errorf("failed to seed demo orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func insertStores(ctx context.Context, tx *sql.Tx) error {
	const query = `
		INSERT INTO stores (country_code, country_name, store_name, currency_symbol, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (country_code) DO UPDATE SET
			country_name = EXCLUDED.country_name,
			store_name = EXCLUDED.store_name,
			currency_symbol = EXCLUDED.currency_symbol
	`
	for _, s := range seedStores {
		if _, err := tx.ExecContext(ctx, query,
			s.countryCode, s.countryName, s.storeName, s.currencySymbol, s.isActive,
		); err != nil {
			return fmt.Errorf("failed to insert store %s: %w", s.countryCode, err)
		}
	}
	return nil
}

func insertProducts(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	const query = `
		INSERT INTO products (
			name, sku, category, quantity, price, cost_price,
			distributor_id, reorder_level, expiry_date, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			cost_price = EXCLUDED.cost_price,
			distributor_id = EXCLUDED.distributor_id,
			reorder_level = EXCLUDED.reorder_level,
			expiry_date = EXCLUDED.expiry_date,
			last_updated = NOW()
		RETURNING id
	`

	ids := make(map[string]int64, len(seedProducts))
	for _, p := range seedProducts {
		var expiry sql.NullTime
		if p.expiryDays > 0 {
			expiry = sql.NullTime{
				Time:  time.Now().AddDate(0, 0, p.expiryDays),
				Valid: true,
			}
		}

		var id int64
		if err := tx.QueryRowContext(ctx, query,
			p.name, p.sku, p.category, p.quantity, p.price, p.costPrice,
			p.distributorID, p.reorderLevel, expiry,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to insert product %s: %w", p.sku, err)
		}
		ids[p.sku] = id
	}

	log.Printf("Successfully seeded %d products\n", len(ids))
	return ids, nil
}

// insertDemoOrders generates completed customer orders spread over the past
// weeks so the bucketed reports and the sales simulation have history to
// work from. Stock levels are left untouched; the seeded quantities already
// reflect the end state.
func insertDemoOrders(ctx context.Context, tx *sql.Tx, productIDs map[string]int64, weeks int) error {
	if weeks <= 0 {
		return nil
	}

	const orderQuery = `
		INSERT INTO orders (kind, counterparty, order_date, status, total_amount)
		VALUES ('customer', $1, $2, 'Completed', $3)
		RETURNING id
	`
	const itemQuery = `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
	`

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()
	orderCount := 0

	for week := 0; week < weeks; week++ {
		ordersThisWeek := 3 + rng.Intn(4)
		for i := 0; i < ordersThisWeek; i++ {
			orderDate := now.AddDate(0, 0, -7*week-rng.Intn(7))

			lines := 1 + rng.Intn(3)
			type line struct {
				productID int64
				quantity  int
				unitPrice float64
			}
			items := make([]line, 0, lines)
			total := 0.0
			for j := 0; j < lines; j++ {
				p := seedProducts[rng.Intn(len(seedProducts))]
				qty := 1 + rng.Intn(5)
				items = append(items, line{productIDs[p.sku], qty, p.price})
				total += float64(qty) * p.price
			}

			var orderID int64
			if err := tx.QueryRowContext(ctx, orderQuery,
				fmt.Sprintf("Walk-in %d", orderCount+1), orderDate, total,
			).Scan(&orderID); err != nil {
				return fmt.Errorf("failed to insert demo order: %w", err)
			}

			for _, item := range items {
				if _, err := tx.ExecContext(ctx, itemQuery,
					orderID, item.productID, item.quantity, item.unitPrice,
				); err != nil {
					return fmt.Errorf("failed to insert demo order item: %w", err)
				}
			}
			orderCount++
		}
	}

	log.Printf("Successfully seeded %d demo orders\n", orderCount)
	return nil
}
