package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
)

// PostgresProductRepository implements ProductRepository using PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL product repository.
func NewPostgresProductRepository(db *sql.DB, logger *logging.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `
	id, name, brand, sku, price, original_price, stock_quantity,
	is_active, gender, shape, images, features, created_at, updated_at
`

// GetByID retrieves a product by its identifier, active or not. Inactive
// products stay reachable for historical orders.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch product", logging.Fields{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	return product, nil
}

// ListActive retrieves the customer-visible catalog page.
func (r *PostgresProductRepository) ListActive(ctx context.Context, limit, offset int) ([]*models.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE is_active = TRUE`,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Create inserts a new catalog product.
func (r *PostgresProductRepository) Create(ctx context.Context, in *models.ProductInput) (*models.Product, error) {
	now := time.Now()
	product := &models.Product{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Brand:         in.Brand,
		SKU:           in.SKU,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		StockQuantity: in.StockQuantity,
		IsActive:      in.IsActive,
		Gender:        in.Gender,
		Shape:         in.Shape,
		Images:        in.Images,
		Features:      in.Features,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	query := `
		INSERT INTO products (
			id, name, brand, sku, price, original_price, stock_quantity,
			is_active, gender, shape, images, features, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Brand,
		product.SKU,
		product.Price,
		nullDecimal(product.OriginalPrice),
		product.StockQuantity,
		product.IsActive,
		product.Gender,
		product.Shape,
		pq.Array(product.Images),
		pq.Array(product.Features),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create product", logging.Fields{
			"sku":   in.SKU,
			"error": err.Error(),
		})
		return nil, err
	}

	r.logger.Info("Product created", logging.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
	})

	return product, nil
}

// Update rewrites the staff-editable fields. Stock is included here only as
// an initial value on catalog edits; operational stock changes go through
// the inventory repository.
func (r *PostgresProductRepository) Update(ctx context.Context, id string, in *models.ProductInput) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $2, brand = $3, sku = $4, price = $5, original_price = $6,
		    is_active = $7, gender = $8, shape = $9, images = $10,
		    features = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		id,
		in.Name,
		in.Brand,
		in.SKU,
		in.Price,
		nullDecimal(in.OriginalPrice),
		in.IsActive,
		in.Gender,
		in.Shape,
		pq.Array(in.Images),
		pq.Array(in.Features),
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update product", logging.Fields{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// SetActive toggles customer visibility without touching anything else.
func (r *PostgresProductRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Info("Product visibility changed", logging.Fields{
		"product_id": id,
		"is_active":  active,
	})
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	var originalPrice decimal.NullDecimal
	var images, features pq.StringArray

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.SKU,
		&product.Price,
		&originalPrice,
		&product.StockQuantity,
		&product.IsActive,
		&product.Gender,
		&product.Shape,
		&images,
		&features,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		product.OriginalPrice = &originalPrice.Decimal
	}
	product.Images = []string(images)
	product.Features = []string(features)

	return &product, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
