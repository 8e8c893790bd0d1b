package service

import (
	"context"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/repository"
)

// InventoryService fronts the inventory guard for staff operations. The
// reserve/release primitives themselves are called by the order flows; the
// only entry point here that staff reach directly is the absolute stock
// correction, and it is admin-gated.
type InventoryService struct {
	inventory repository.InventoryRepository
	authz     *AuthzService
	cache     Cache
	config    *config.Config
	logger    *logging.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	inventory repository.InventoryRepository,
	authz *AuthzService,
	cache Cache,
	cfg *config.Config,
) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		authz:     authz,
		cache:     cache,
		config:    cfg,
		logger:    logging.New("inventory-service"),
	}
}

// Reserve atomically takes stock for one order line. Exactly one of two
// concurrent callers competing for the last unit succeeds.
func (s *InventoryService) Reserve(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}

	if err := s.inventory.Reserve(ctx, productID, quantity); err != nil {
		return err
	}

	s.invalidate(ctx, productID)
	return nil
}

// Release restocks a previously reserved quantity.
func (s *InventoryService) Release(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}

	if err := s.inventory.Release(ctx, productID, quantity); err != nil {
		return err
	}

	s.invalidate(ctx, productID)
	return nil
}

// AdjustStock is a staff correction of the absolute stock level.
func (s *InventoryService) AdjustStock(ctx context.Context, actorID, productID string, quantity int) error {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if quantity < 0 {
		return apperrors.NewValidationError("stock_quantity", "stock quantity cannot be negative")
	}

	if err := s.inventory.SetStock(ctx, productID, quantity); err != nil {
		return err
	}

	s.logger.Info("Stock corrected", logging.Fields{
		"product_id": productID,
		"quantity":   quantity,
		"actor_id":   actorID,
	})

	s.invalidate(ctx, productID)
	return nil
}

func (s *InventoryService) invalidate(ctx context.Context, productID string) {
	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.InvalidateProduct(ctx, productID)
	}
}
