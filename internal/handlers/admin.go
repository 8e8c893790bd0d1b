package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/framekart/framekart-store-service/internal/middleware"
	"github.com/framekart/framekart-store-service/internal/models"
)

// Admin endpoints. The role gate lives in the services, not here: handlers
// only extract the actor and pass it through, so a route wiring mistake
// can never skip the check.

// AdminListOrders handles GET /api/v1/admin/orders
func (h *Handlers) AdminListOrders(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	filter := &models.OrderListFilter{}
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = userID
	}
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		filter.Status = &s
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), actorID, filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// AdminUpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func (h *Handlers) AdminUpdateOrderStatus(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// AdminCancelOrder handles POST /api/v1/admin/orders/:id/cancel
func (h *Handlers) AdminCancelOrder(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), actorID, c.Param("id"), req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// AdminSetPaymentStatus handles PATCH /api/v1/admin/orders/:id/payment-status
func (h *Handlers) AdminSetPaymentStatus(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req models.SetPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orderService.SetPaymentStatus(c.Request.Context(), actorID, c.Param("id"), req.PaymentStatus)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// AdminCreateProduct handles POST /api/v1/admin/products
func (h *Handlers) AdminCreateProduct(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), actorID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// AdminUpdateProduct handles PUT /api/v1/admin/products/:id
func (h *Handlers) AdminUpdateProduct(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// AdminSetProductActive handles PATCH /api/v1/admin/products/:id/active
func (h *Handlers) AdminSetProductActive(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.catalogService.SetProductActive(c.Request.Context(), actorID, c.Param("id"), req.IsActive); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// AdminAdjustStock handles PUT /api/v1/admin/products/:id/stock
func (h *Handlers) AdminAdjustStock(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req struct {
		StockQuantity int `json:"stock_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.inventoryService.AdjustStock(c.Request.Context(), actorID, c.Param("id"), req.StockQuantity); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// AdminAssignRole handles PUT /api/v1/admin/users/:user_id/role
func (h *Handlers) AdminAssignRole(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.authzService.AssignRole(c.Request.Context(), actorID, c.Param("user_id"), req.Role); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

// AdminGetRole handles GET /api/v1/admin/users/:user_id/role
func (h *Handlers) AdminGetRole(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	if err := h.authzService.RequireAdmin(c.Request.Context(), actorID); err != nil {
		handleError(c, err)
		return
	}

	role, err := h.authzService.GetRole(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": c.Param("user_id"),
		"role":    role,
	})
}
