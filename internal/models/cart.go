package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is a (user, product) pair, unique per user. Quantity is always
// >= 1; a zero-quantity line is removed instead.
type CartLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is a cart line joined with the live product fields the
// storefront renders. Prices here are always current catalog prices, never
// snapshots; the snapshot happens at order placement.
type CartItem struct {
	CartLine
	ProductName   string          `json:"product_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
}

// LineTotal is quantity times the live unit price.
func (c *CartItem) LineTotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartTotals summarizes a user's cart against live catalog prices.
type CartTotals struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
