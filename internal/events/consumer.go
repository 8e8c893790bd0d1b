package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
	"github.com/framekart/framekart-store-service/internal/service"
)

// PaymentEventType represents the type of payment reconciliation event.
type PaymentEventType string

const (
	PaymentEventConfirmed PaymentEventType = "payment.confirmed"
	PaymentEventFailed    PaymentEventType = "payment.failed"
)

// PaymentEvent is published by the payments back office when a wallet or
// bank transfer has been matched against an order. ActorID identifies the
// staff member who reconciled it; the role gate still applies.
type PaymentEvent struct {
	ID        string           `json:"id"`
	Type      PaymentEventType `json:"type"`
	OrderID   string           `json:"order_id"`
	ActorID   string           `json:"actor_id"`
	Reference string           `json:"reference"`
	Timestamp time.Time        `json:"timestamp"`
}

// KafkaConsumer consumes payment reconciliation events from Kafka.
type KafkaConsumer struct {
	reader *kafka.Reader
	orders *service.OrderService
	logger *logging.Logger
	stopCh chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, orders *service.OrderService) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader: reader,
		orders: orders,
		logger: logging.New("kafka-consumer"),
		stopCh: make(chan struct{}),
	}
}

// Start begins consuming events. Blocks until the context is cancelled or
// Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	switch event.Type {
	case PaymentEventConfirmed:
		c.reconcile(ctx, &event, models.PaymentStatusConfirmed)
	case PaymentEventFailed:
		c.reconcile(ctx, &event, models.PaymentStatusFailed)
	default:
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
	}
}

func (c *KafkaConsumer) reconcile(ctx context.Context, event *PaymentEvent, status models.PaymentStatus) {
	c.logger.Info("Handling payment reconciliation event", logging.Fields{
		"order_id":       event.OrderID,
		"payment_status": status,
		"actor_id":       event.ActorID,
	})

	_, err := c.orders.SetPaymentStatus(ctx, event.ActorID, event.OrderID, status)
	if err != nil {
		c.logger.Error("Failed to reconcile payment", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}
