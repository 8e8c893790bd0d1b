package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/framekart/framekart-store-service/internal/models"
)

// Compile-time interface checks.
var (
	_ ProductRepository   = (*PostgresProductRepository)(nil)
	_ CartRepository      = (*PostgresCartRepository)(nil)
	_ InventoryRepository = (*PostgresInventoryRepository)(nil)
	_ OrderRepository     = (*PostgresOrderRepository)(nil)
	_ RoleRepository      = (*PostgresRoleRepository)(nil)
)

// ProductRepository provides catalog access.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Product, int, error)
	Create(ctx context.Context, in *models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in *models.ProductInput) (*models.Product, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// CartRepository provides per-user cart line storage. Lines are unique on
// (user_id, product_id).
type CartRepository interface {
	GetItems(ctx context.Context, userID string) ([]*models.CartItem, error)
	GetLine(ctx context.Context, userID, productID string) (*models.CartLine, error)
	UpsertLine(ctx context.Context, userID, productID string, quantity int) error
	RemoveLine(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	Totals(ctx context.Context, userID string) (*models.CartTotals, error)
}

// InventoryRepository owns every write to products.stock_quantity.
type InventoryRepository interface {
	// Reserve atomically decrements stock if and only if enough remains.
	// Returns apperrors.ErrStockConflict when the conditional write affects
	// no row for an existing product.
	Reserve(ctx context.Context, productID string, quantity int) error

	// Release is the compensating restock for a cancelled order.
	Release(ctx context.Context, productID string, quantity int) error

	// SetStock is an absolute staff correction.
	SetStock(ctx context.Context, productID string, quantity int) error
}

// OrderRepository provides order storage, including the all-or-nothing
// placement transaction and the row-locked lifecycle transition.
type OrderRepository interface {
	Place(ctx context.Context, req *models.PlaceOrderRequest, shippingCost decimal.Decimal) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
	Transition(ctx context.Context, id string, to models.OrderStatus, notes string) (*models.Order, models.OrderStatus, error)
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

// RoleRepository provides effective-role storage, unique per user.
type RoleRepository interface {
	// GetRole returns apperrors.ErrNotFound when no assignment exists; the
	// authorization gate maps that to the customer default.
	GetRole(ctx context.Context, userID string) (models.Role, error)
	Upsert(ctx context.Context, userID string, role models.Role) error
}
