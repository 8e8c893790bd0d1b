package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender classification for frames. Cosmetic only.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"
)

// Frame shape classification. Cosmetic only.
const (
	ShapeRound     = "round"
	ShapeSquare    = "square"
	ShapeAviator   = "aviator"
	ShapeCatEye    = "cat_eye"
	ShapeRectangle = "rectangle"
)

// Product is a catalog item. Stock is only ever decremented through the
// inventory repository's conditional update; everything else is edited by
// staff through the catalog operations.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	Gender        string           `json:"gender"`
	Shape         string           `json:"shape"`
	Images        []string         `json:"images"`
	Features      []string         `json:"features"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// InStock reports whether the requested quantity can currently be satisfied.
// Advisory only: the authoritative check is the conditional decrement at
// reservation time.
func (p *Product) InStock(qty int) bool {
	return p.IsActive && qty <= p.StockQuantity
}

// ProductInput carries the staff-editable catalog fields.
type ProductInput struct {
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	Gender        string           `json:"gender"`
	Shape         string           `json:"shape"`
	Images        []string         `json:"images"`
	Features      []string         `json:"features"`
}
