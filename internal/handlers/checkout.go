package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/middleware"
	"github.com/framekart/framekart-store-service/internal/models"
)

// Checkout handles POST /api/v1/checkout. The caller's identity comes from
// the gateway header, never from the body.
func (h *Handlers) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind checkout request", logging.Fields{"error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.UserID = userID

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
