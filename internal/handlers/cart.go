package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/framekart/framekart-store-service/internal/middleware"
)

// GetCart handles GET /api/v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	items, err := h.cartService.GetItems(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	totals, err := h.cartService.Totals(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"item_count": totals.ItemCount,
		"subtotal":   totals.Subtotal,
	})
}

// AddCartItem handles POST /api/v1/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cartService.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

// UpdateCartItem handles PUT /api/v1/cart/items/:product_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cartService.SetQuantity(c.Request.Context(), userID, c.Param("product_id"), req.Quantity); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:product_id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, c.Param("product_id")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
