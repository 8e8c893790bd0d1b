package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/framekart/framekart-store-service/internal/middleware"
	"github.com/framekart/framekart-store-service/internal/models"
)

// GetOrder handles GET /api/v1/orders/:id. Customers see only their own
// orders; someone else's order answers 404 rather than 403 so order IDs
// cannot be probed.
func (h *Handlers) GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	if order.UserID != userID {
		isAdmin, roleErr := h.authzService.HasRole(c.Request.Context(), userID, models.RoleAdmin)
		if roleErr != nil || !isAdmin {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
	}

	c.JSON(http.StatusOK, order)
}

// GetMyOrders handles GET /api/v1/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit := 20
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			offset = o
		}
	}

	orders, total, err := h.orderService.GetUserOrders(c.Request.Context(), userID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
