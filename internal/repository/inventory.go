package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
)

// PostgresInventoryRepository is the only component that writes
// products.stock_quantity. Both statements here are single atomic updates;
// there is deliberately no read-then-write variant anywhere in this file.
type PostgresInventoryRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresInventoryRepository creates a new inventory repository.
func NewPostgresInventoryRepository(db *sql.DB, logger *logging.Logger) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{
		db:     db,
		logger: logger,
	}
}

const reserveQuery = `
	UPDATE products
	SET stock_quantity = stock_quantity - $2, updated_at = $3
	WHERE id = $1 AND stock_quantity >= $2
`

const releaseQuery = `
	UPDATE products
	SET stock_quantity = stock_quantity + $2, updated_at = $3
	WHERE id = $1
`

type execContext interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Reserve conditionally decrements stock. Success is decided by whether the
// conditional write affected a row: under concurrent checkouts for the last
// unit, exactly one caller wins.
func (r *PostgresInventoryRepository) Reserve(ctx context.Context, productID string, quantity int) error {
	return r.reserve(ctx, r.db, productID, quantity)
}

// reserveTx runs the same conditional decrement inside an open placement
// transaction.
func (r *PostgresInventoryRepository) reserveTx(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	return r.reserve(ctx, tx, productID, quantity)
}

func (r *PostgresInventoryRepository) reserve(ctx context.Context, ex execContext, productID string, quantity int) error {
	result, err := ex.ExecContext(ctx, reserveQuery, productID, quantity, time.Now())
	if err != nil {
		r.logger.Error("Stock reservation failed", logging.Fields{
			"product_id": productID,
			"quantity":   quantity,
			"error":      err.Error(),
		})
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		r.logger.Info("Stock reservation lost", logging.Fields{
			"product_id": productID,
			"quantity":   quantity,
		})
		return apperrors.ErrStockConflict
	}

	return nil
}

// Release restocks a previously reserved quantity. Its only failure mode is
// the product no longer existing.
func (r *PostgresInventoryRepository) Release(ctx context.Context, productID string, quantity int) error {
	return r.release(ctx, r.db, productID, quantity)
}

// releaseTx restocks inside an open cancellation transaction so the release
// commits or aborts together with the status change.
func (r *PostgresInventoryRepository) releaseTx(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	return r.release(ctx, tx, productID, quantity)
}

func (r *PostgresInventoryRepository) release(ctx context.Context, ex execContext, productID string, quantity int) error {
	result, err := ex.ExecContext(ctx, releaseQuery, productID, quantity, time.Now())
	if err != nil {
		r.logger.Error("Stock release failed", logging.Fields{
			"product_id": productID,
			"quantity":   quantity,
			"error":      err.Error(),
		})
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Info("Stock released", logging.Fields{
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}

// SetStock is an absolute staff correction of the stock level.
func (r *PostgresInventoryRepository) SetStock(ctx context.Context, productID string, quantity int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = $3 WHERE id = $1`,
		productID, quantity, time.Now(),
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Info("Stock adjusted", logging.Fields{
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}
