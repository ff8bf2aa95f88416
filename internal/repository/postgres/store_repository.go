package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	query := `
		SELECT id, country_code, country_name, store_name, currency_symbol, is_active
		FROM stores
		ORDER BY id
	`

	var stores []domain.Store
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("error listing stores: %w", err)
	}

	return stores, nil
}

// GetActiveStore returns the flagged store. When nothing is flagged the first
// store is promoted, matching the recovery behavior the API relies on.
func (r *storeRepository) GetActiveStore(ctx context.Context) (*domain.Store, error) {
	query := `
		SELECT id, country_code, country_name, store_name, currency_symbol, is_active
		FROM stores
		WHERE is_active
		LIMIT 1
	`

	var store domain.Store
	err := r.db.GetContext(ctx, &store, query)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.GetContext(ctx, &store, `
			SELECT id, country_code, country_name, store_name, currency_symbol, is_active
			FROM stores ORDER BY id LIMIT 1
		`)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if err == nil {
			_, err = r.db.ExecContext(ctx, `UPDATE stores SET is_active = TRUE WHERE id = $1`, store.ID)
			store.IsActive = true
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error getting active store: %w", err)
	}

	return &store, nil
}

func (r *storeRepository) SetActiveStore(ctx context.Context, countryCode string) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE stores SET is_active = (country_code = $1)`, countryCode)
		if err != nil {
			return fmt.Errorf("error switching active store: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("error checking store switch: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		var active int
		if err := tx.GetContext(ctx, &active, `SELECT COUNT(*) FROM stores WHERE is_active`); err != nil {
			return fmt.Errorf("error verifying active store: %w", err)
		}
		if active == 0 {
			return repository.ErrNotFound
		}

		return nil
	})
}
