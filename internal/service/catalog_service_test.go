package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/models"
)

func newCatalogFixture() (*CatalogService, *fakeProductRepo, *fakeRoleRepo, *fakeCache) {
	products := newFakeProductRepo()
	roles := newFakeRoleRepo()
	roles.roles["admin_1"] = models.RoleAdmin
	cache := newFakeCache()

	cfg := &config.Config{
		Features: config.FeatureFlags{EnableCaching: true},
	}

	svc := NewCatalogService(products, NewAuthzService(roles), cache, cfg)
	return svc, products, roles, cache
}

func sampleInput() *models.ProductInput {
	return &models.ProductInput{
		Name:          "Aviator Classic",
		Brand:         "FrameKart",
		SKU:           "AV-01",
		Price:         decimal.NewFromInt(2500),
		StockQuantity: 10,
		IsActive:      true,
		Gender:        models.GenderUnisex,
		Shape:         models.ShapeAviator,
	}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates", func(t *testing.T) {
		svc, _, _, _ := newCatalogFixture()

		product, err := svc.CreateProduct(ctx, "admin_1", sampleInput())
		if err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
		if product.ID == "" {
			t.Error("expected a product ID")
		}
	})

	t.Run("non-admin denied", func(t *testing.T) {
		svc, products, _, _ := newCatalogFixture()

		_, err := svc.CreateProduct(ctx, "cust_1", sampleInput())
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Fatalf("CreateProduct() = %v, want forbidden", err)
		}
		if len(products.products) != 0 {
			t.Error("denied create must not persist anything")
		}
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		svc, _, _, _ := newCatalogFixture()

		in := sampleInput()
		in.Price = decimal.Zero
		if _, err := svc.CreateProduct(ctx, "admin_1", in); !apperrors.IsValidation(err) {
			t.Errorf("CreateProduct() = %v, want validation error", err)
		}
	})
}

func TestCatalogService_UpdateProduct_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, _, cache := newCatalogFixture()

	product, err := svc.CreateProduct(ctx, "admin_1", sampleInput())
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	// Prime the cache through a read.
	if _, err := svc.GetProduct(ctx, product.ID); err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if cached, _ := cache.GetProduct(ctx, product.ID); cached == nil {
		t.Fatal("expected the read to populate the cache")
	}

	in := sampleInput()
	in.Price = decimal.NewFromInt(2800)
	if _, err := svc.UpdateProduct(ctx, "admin_1", product.ID, in); err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}

	if cached, _ := cache.GetProduct(ctx, product.ID); cached != nil {
		t.Error("update must invalidate the cached product")
	}
}

func TestCatalogService_SetProductActive(t *testing.T) {
	ctx := context.Background()
	svc, products, _, _ := newCatalogFixture()

	product, err := svc.CreateProduct(ctx, "admin_1", sampleInput())
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	if err := svc.SetProductActive(ctx, "cust_1", product.ID, false); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("SetProductActive() = %v, want forbidden", err)
	}

	if err := svc.SetProductActive(ctx, "admin_1", product.ID, false); err != nil {
		t.Fatalf("SetProductActive() error = %v", err)
	}
	if products.products[product.ID].IsActive {
		t.Error("product should be inactive")
	}

	// Inactive products stay readable for order history.
	if _, err := svc.GetProduct(ctx, product.ID); err != nil {
		t.Errorf("GetProduct() on inactive product error = %v", err)
	}

	// But disappear from the customer listing.
	list, _, err := svc.ListProducts(ctx, 20, 0)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("inactive product must not be listed, got %d items", len(list))
	}
}
