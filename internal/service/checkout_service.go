package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/clients"
	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/metrics"
	"github.com/framekart/framekart-store-service/internal/models"
	"github.com/framekart/framekart-store-service/internal/repository"
)

// CheckoutService turns a cart into an order. The repository executes the
// placement as a single all-or-nothing transaction; this service owns
// input validation and the post-commit side effects.
type CheckoutService struct {
	orders   repository.OrderRepository
	cache    Cache
	events   EventPublisher
	notifier Notifier
	config   *config.Config
	logger   *logging.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orders repository.OrderRepository,
	cache Cache,
	events EventPublisher,
	notifier Notifier,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		cache:    cache,
		events:   events,
		notifier: notifier,
		config:   cfg,
		logger:   logging.New("checkout-service"),
	}
}

// PlaceOrder validates the request and runs the placement transaction.
// Either the order header, all its lines and all reservations exist
// afterwards, or none do.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, error) {
	if err := ValidatePlaceOrderRequest(req); err != nil {
		return nil, err
	}
	req.Notes = SanitizeNotes(req.Notes)

	s.logger.Info("Placing order", logging.Fields{
		"user_id":        req.UserID,
		"payment_method": req.PaymentMethod,
	})

	order, err := s.orders.Place(ctx, req, s.config.Checkout.ShippingCost)
	if err != nil {
		if errors.Is(err, apperrors.ErrStockConflict) {
			metrics.StockConflicts.Inc()
		}
		return nil, err
	}

	metrics.OrdersPlaced.Inc()

	// Cart-line product stock changed; any cached copies are stale now.
	if s.config.Features.EnableCaching && s.cache != nil {
		for _, line := range order.Lines {
			s.cache.InvalidateProduct(ctx, line.ProductID)
		}
	}

	if s.config.Features.EnableOrderEvents && s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, order); err != nil {
			// Log but don't fail
			s.logger.Error("Failed to publish order placed event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	if s.config.Features.EnableNotifications && s.notifier != nil {
		go s.sendConfirmation(context.Background(), order)
	}

	s.logger.Info("Order placed successfully", logging.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount.String(),
	})

	return order, nil
}

func (s *CheckoutService) sendConfirmation(ctx context.Context, order *models.Order) {
	n := &clients.Notification{
		Type:      clients.NotificationOrderConfirmation,
		Recipient: order.UserID,
		Subject:   "Order Confirmation",
		Body:      fmt.Sprintf("Your order %s has been received.", order.OrderNumber),
		Metadata: map[string]string{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.TotalAmount.String() + " " + s.config.Checkout.Currency,
		},
	}

	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Error("Failed to send order confirmation", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}
