package service

import (
	"context"

	"github.com/framekart/framekart-store-service/internal/clients"
	"github.com/framekart/framekart-store-service/internal/models"
)

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previousStatus models.OrderStatus) error
	PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error
}

// Notifier delivers customer notifications through the external
// notification service. Failures are logged, never surfaced to callers.
type Notifier interface {
	Send(ctx context.Context, n *clients.Notification) error
}

// Cache is the read-through cache surface the services use. A nil-order /
// nil-product result with nil error is a miss.
type Cache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	InvalidateProduct(ctx context.Context, id string) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	SetOrder(ctx context.Context, order *models.Order) error
	InvalidateOrder(ctx context.Context, id string) error
}
