package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/service"
)

// Handlers holds all HTTP handlers for the store service.
type Handlers struct {
	catalogService   *service.CatalogService
	cartService      *service.CartService
	checkoutService  *service.CheckoutService
	orderService     *service.OrderService
	inventoryService *service.InventoryService
	authzService     *service.AuthzService
	config           *config.Config
	logger           *logging.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	orderService *service.OrderService,
	inventoryService *service.InventoryService,
	authzService *service.AuthzService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		catalogService:   catalogService,
		cartService:      cartService,
		checkoutService:  checkoutService,
		orderService:     orderService,
		inventoryService: inventoryService,
		authzService:     authzService,
		config:           cfg,
		logger:           logging.New("handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		// Uniform body so the response never reveals whether the target exists.
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, apperrors.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
	case errors.Is(err, apperrors.ErrStockConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "stock changed during checkout, please retry"})
	case errors.Is(err, apperrors.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid status transition"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
