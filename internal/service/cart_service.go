package service

import (
	"context"
	"errors"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
	"github.com/framekart/framekart-store-service/internal/repository"
)

// CartService manages per-user cart lines. Every mutation validates the
// requested quantity against live stock; the check is advisory and gets
// repeated authoritatively at checkout, since stock can drop between a
// cart edit and placement.
type CartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
	logger   *logging.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cart repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		cart:     cart,
		products: products,
		logger:   logging.New("cart-service"),
	}
}

// GetItems returns the user's cart joined with live product data.
func (s *CartService) GetItems(ctx context.Context, userID string) ([]*models.CartItem, error) {
	return s.cart.GetItems(ctx, userID)
}

// AddItem creates or increments a cart line. The requested quantity must
// not exceed live stock; an increment is clamped so the resulting line
// never exceeds stock either.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if !product.IsActive || quantity > product.StockQuantity {
		return apperrors.ErrOutOfStock
	}

	newQuantity := quantity
	existing, err := s.cart.GetLine(ctx, userID, productID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if existing != nil {
		newQuantity = existing.Quantity + quantity
		if newQuantity > product.StockQuantity {
			newQuantity = product.StockQuantity
		}
	}

	if err := s.cart.UpsertLine(ctx, userID, productID, newQuantity); err != nil {
		return err
	}

	s.logger.Info("Cart line updated", logging.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   newQuantity,
	})
	return nil
}

// SetQuantity replaces a line's quantity. Quantities below 1 are rejected;
// callers remove the line instead.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1; remove the item instead")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if !product.IsActive || quantity > product.StockQuantity {
		return apperrors.ErrOutOfStock
	}

	return s.cart.UpsertLine(ctx, userID, productID, quantity)
}

// RemoveItem deletes a cart line. Idempotent.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.cart.RemoveLine(ctx, userID, productID)
}

// Totals computes item count and subtotal against live catalog prices.
// The cart always reflects current pricing until the order is placed.
func (s *CartService) Totals(ctx context.Context, userID string) (*models.CartTotals, error) {
	return s.cart.Totals(ctx, userID)
}
