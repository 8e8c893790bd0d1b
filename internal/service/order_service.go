package service

import (
	"context"
	"fmt"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/clients"
	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/metrics"
	"github.com/framekart/framekart-store-service/internal/models"
	"github.com/framekart/framekart-store-service/internal/repository"
)

// OrderService governs the order lifecycle after placement. Every mutating
// operation is gated on the admin role and fails closed.
type OrderService struct {
	orders   repository.OrderRepository
	authz    *AuthzService
	cache    Cache
	events   EventPublisher
	notifier Notifier
	config   *config.Config
	logger   *logging.Logger
}

// NewOrderService creates a new order lifecycle service.
func NewOrderService(
	orders repository.OrderRepository,
	authz *AuthzService,
	cache Cache,
	events EventPublisher,
	notifier Notifier,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orders:   orders,
		authz:    authz,
		cache:    cache,
		events:   events,
		notifier: notifier,
		config:   cfg,
		logger:   logging.New("order-service"),
	}
}

// GetOrder retrieves an order by ID through the cache.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if s.config.Features.EnableCaching && s.cache != nil {
		if order, err := s.cache.GetOrder(ctx, id); err == nil && order != nil {
			return order, nil
		}
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.SetOrder(ctx, order)
	}

	return order, nil
}

// GetUserOrders lists a customer's own orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, int, error) {
	filter := &models.OrderListFilter{UserID: userID, Limit: limit, Offset: offset}
	if err := ValidateOrderListFilter(filter); err != nil {
		return nil, 0, err
	}
	return s.orders.List(ctx, filter)
}

// ListOrders is the staff order listing; admin only.
func (s *OrderService) ListOrders(ctx context.Context, actorID string, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, 0, err
	}
	if err := ValidateOrderListFilter(filter); err != nil {
		return nil, 0, err
	}
	return s.orders.List(ctx, filter)
}

// UpdateStatus transitions an order along the lifecycle graph. Illegal
// jumps fail with ErrInvalidTransition; the authoritative check runs under
// the order's row lock.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := ValidateUpdateOrderStatusRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("Updating order status", logging.Fields{
		"order_id":   orderID,
		"new_status": req.Status,
		"actor_id":   actorID,
	})

	order, previousStatus, err := s.orders.Transition(ctx, orderID, req.Status, SanitizeNotes(req.Notes))
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, order, previousStatus)
	return order, nil
}

// CancelOrder cancels an order and restocks every line in the same
// transaction. Only pending, confirmed and processing orders can be
// cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, actorID, orderID, reason string) (*models.Order, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := ValidateCancellationReason(reason); err != nil {
		return nil, err
	}

	s.logger.Info("Cancelling order", logging.Fields{
		"order_id": orderID,
		"reason":   reason,
		"actor_id": actorID,
	})

	order, _, err := s.orders.Transition(ctx, orderID, models.OrderStatusCancelled, SanitizeNotes(reason))
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()

	// Restocked lines invalidate cached product copies too.
	if s.config.Features.EnableCaching && s.cache != nil {
		for _, line := range order.Lines {
			s.cache.InvalidateProduct(ctx, line.ProductID)
		}
	}

	if s.config.Features.EnableOrderEvents && s.events != nil {
		if err := s.events.PublishOrderCancelled(ctx, order, reason); err != nil {
			s.logger.Error("Failed to publish order cancelled event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}
	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.InvalidateOrder(ctx, orderID)
	}
	if s.config.Features.EnableNotifications && s.notifier != nil {
		go s.sendStatusNotification(context.Background(), order)
	}

	return order, nil
}

// SetPaymentStatus records manual reconciliation of a wallet or bank
// transfer. Cash-on-delivery orders have no reconciliation step, and a
// failed payment does not cancel the order; that stays a staff decision.
func (s *OrderService) SetPaymentStatus(ctx context.Context, actorID, orderID string, status models.PaymentStatus) (*models.Order, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if status != models.PaymentStatusConfirmed && status != models.PaymentStatusFailed {
		return nil, apperrors.NewValidationError("payment_status", "payment status must be confirmed or failed")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod == models.PaymentMethodCashOnDelivery {
		return nil, apperrors.NewValidationError("payment_status", "cash on delivery orders have no payment reconciliation")
	}

	if err := s.orders.SetPaymentStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.InvalidateOrder(ctx, orderID)
	}

	s.logger.Info("Payment reconciled", logging.Fields{
		"order_id":       orderID,
		"payment_status": status,
		"actor_id":       actorID,
	})

	order.PaymentStatus = status
	return order, nil
}

func (s *OrderService) afterTransition(ctx context.Context, order *models.Order, previousStatus models.OrderStatus) {
	if s.config.Features.EnableCaching && s.cache != nil {
		s.cache.InvalidateOrder(ctx, order.ID)
	}

	if s.config.Features.EnableOrderEvents && s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, order, previousStatus); err != nil {
			s.logger.Error("Failed to publish status change event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	if s.config.Features.EnableNotifications && s.notifier != nil {
		go s.sendStatusNotification(context.Background(), order)
	}
}

func (s *OrderService) sendStatusNotification(ctx context.Context, order *models.Order) {
	var notificationType clients.NotificationType
	var subject, body string

	switch order.Status {
	case models.OrderStatusShipped:
		notificationType = clients.NotificationOrderShipped
		subject = "Order Shipped"
		body = fmt.Sprintf("Your order %s has been shipped.", order.OrderNumber)
	case models.OrderStatusDelivered:
		notificationType = clients.NotificationOrderDelivered
		subject = "Order Delivered"
		body = fmt.Sprintf("Your order %s has been delivered.", order.OrderNumber)
	case models.OrderStatusCancelled:
		notificationType = clients.NotificationOrderCancelled
		subject = "Order Cancelled"
		body = fmt.Sprintf("Your order %s has been cancelled.", order.OrderNumber)
	default:
		return // No notification for other status changes
	}

	n := &clients.Notification{
		Type:      notificationType,
		Recipient: order.UserID,
		Subject:   subject,
		Body:      body,
		Metadata: map[string]string{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
		},
	}

	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Error("Failed to send status notification", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}
