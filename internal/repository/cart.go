package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
)

// PostgresCartRepository implements CartRepository using PostgreSQL.
type PostgresCartRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresCartRepository creates a new PostgreSQL cart repository.
func NewPostgresCartRepository(db *sql.DB, logger *logging.Logger) *PostgresCartRepository {
	return &PostgresCartRepository{
		db:     db,
		logger: logger,
	}
}

// GetItems retrieves the user's cart lines joined with live product fields.
func (r *PostgresCartRepository) GetItems(ctx context.Context, userID string) ([]*models.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
		       ci.created_at, ci.updated_at,
		       p.name, p.price, p.stock_quantity, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to fetch cart", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.CartItem, 0)
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.ProductName,
			&item.UnitPrice,
			&item.StockQuantity,
			&item.IsActive,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetLine retrieves a single cart line, or ErrNotFound.
func (r *PostgresCartRepository) GetLine(ctx context.Context, userID, productID string) (*models.CartLine, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	var line models.CartLine
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &line, nil
}

// UpsertLine creates the line or replaces its quantity. The unique
// constraint on (user_id, product_id) makes this a single atomic write.
func (r *PostgresCartRepository) UpsertLine(ctx context.Context, userID, productID string, quantity int) error {
	now := time.Now()
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, productID, quantity, now)
	if err != nil {
		r.logger.Error("Failed to upsert cart line", logging.Fields{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return err
	}

	return nil
}

// RemoveLine deletes a cart line. Idempotent: removing a missing line is
// not an error.
func (r *PostgresCartRepository) RemoveLine(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	return err
}

// clearCartQuery is shared with the order placement transaction, the
// only caller that clears a cart in the request path.
const clearCartQuery = `DELETE FROM cart_items WHERE user_id = $1`

// Clear removes all of the user's cart lines.
func (r *PostgresCartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, clearCartQuery, userID)
	if err != nil {
		r.logger.Error("Failed to clear cart", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	return err
}

// Totals computes the item count and subtotal against live catalog prices.
func (r *PostgresCartRepository) Totals(ctx context.Context, userID string) (*models.CartTotals, error) {
	query := `
		SELECT COALESCE(SUM(ci.quantity), 0),
		       COALESCE(SUM(ci.quantity * p.price), 0)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
	`

	var totals models.CartTotals
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&totals.ItemCount, &totals.Subtotal); err != nil {
		return nil, err
	}

	return &totals, nil
}
