package service

import (
	"context"

	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
	"github.com/framekart/framekart-store-service/internal/repository"
)

// CatalogService serves the customer-facing catalog and the staff catalog
// edit operations.
type CatalogService struct {
	products repository.ProductRepository
	authz    *AuthzService
	cache    Cache
	config   *config.Config
	logger   *logging.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	authz *AuthzService,
	cache Cache,
	cfg *config.Config,
) *CatalogService {
	return &CatalogService{
		products: products,
		authz:    authz,
		cache:    cache,
		config:   cfg,
		logger:   logging.New("catalog-service"),
	}
}

// ListProducts returns a page of the active catalog.
func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.products.ListActive(ctx, limit, offset)
}

// GetProduct returns a product by ID through the cache. Inactive products
// are still returned: historical orders reference them.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if s.config.Features.EnableCaching && s.cache != nil {
		if product, err := s.cache.GetProduct(ctx, id); err == nil && product != nil {
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}

	return product, nil
}

// CreateProduct adds a catalog item; admin only.
func (s *CatalogService) CreateProduct(ctx context.Context, actorID string, in *models.ProductInput) (*models.Product, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := ValidateProductInput(in); err != nil {
		return nil, err
	}

	product, err := s.products.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created", logging.Fields{
		"product_id": product.ID,
		"actor_id":   actorID,
	})
	return product, nil
}

// UpdateProduct rewrites a catalog item; admin only. Stock corrections go
// through the inventory service instead.
func (s *CatalogService) UpdateProduct(ctx context.Context, actorID, id string, in *models.ProductInput) (*models.Product, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := ValidateProductInput(in); err != nil {
		return nil, err
	}

	product, err := s.products.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}

	return product, nil
}

// SetProductActive toggles customer visibility; admin only.
func (s *CatalogService) SetProductActive(ctx context.Context, actorID, id string, active bool) error {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.products.SetActive(ctx, id, active); err != nil {
		return err
	}

	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}
	return nil
}
