package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/handlers"
	"github.com/framekart/framekart-store-service/internal/middleware"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *handlers.Handlers
}

func New(h *handlers.Handlers, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Identity())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/products", s.handlers.ListProducts)
		v1.GET("/products/:id", s.handlers.GetProduct)

		v1.GET("/cart", s.handlers.GetCart)
		v1.POST("/cart/items", s.handlers.AddCartItem)
		v1.PUT("/cart/items/:product_id", s.handlers.UpdateCartItem)
		v1.DELETE("/cart/items/:product_id", s.handlers.RemoveCartItem)

		v1.POST("/checkout", s.handlers.Checkout)

		v1.GET("/orders", s.handlers.GetMyOrders)
		v1.GET("/orders/:id", s.handlers.GetOrder)

		// The admin group carries no gating middleware on purpose: the
		// role check runs inside each service call, keyed on the actor.
		admin := v1.Group("/admin")
		{
			admin.GET("/orders", s.handlers.AdminListOrders)
			admin.PATCH("/orders/:id/status", s.handlers.AdminUpdateOrderStatus)
			admin.POST("/orders/:id/cancel", s.handlers.AdminCancelOrder)
			admin.PATCH("/orders/:id/payment-status", s.handlers.AdminSetPaymentStatus)

			admin.POST("/products", s.handlers.AdminCreateProduct)
			admin.PUT("/products/:id", s.handlers.AdminUpdateProduct)
			admin.PATCH("/products/:id/active", s.handlers.AdminSetProductActive)
			admin.PUT("/products/:id/stock", s.handlers.AdminAdjustStock)

			admin.GET("/users/:user_id/role", s.handlers.AdminGetRole)
			admin.PUT("/users/:user_id/role", s.handlers.AdminAssignRole)
		}
	}
}

// Start runs the HTTP server. Blocks until the server stops.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
