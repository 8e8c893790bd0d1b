package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/middleware"
)

// NotificationType identifies the template the notification service renders.
type NotificationType string

const (
	NotificationOrderConfirmation NotificationType = "order_confirmation"
	NotificationOrderShipped      NotificationType = "order_shipped"
	NotificationOrderDelivered    NotificationType = "order_delivered"
	NotificationOrderCancelled    NotificationType = "order_cancelled"
)

// Notification is a message handed to the notification service for
// delivery. Recipient is a user ID; the notification service resolves the
// actual channel (email, SMS).
type Notification struct {
	Type      NotificationType  `json:"type"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// HTTPNotificationClient delivers notifications over HTTP. Delivery is
// best-effort; callers log failures and move on.
type HTTPNotificationClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPNotificationClient creates a new HTTP-based notification client.
func NewHTTPNotificationClient(cfg config.ServiceConfig) *HTTPNotificationClient {
	return &HTTPNotificationClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logging.New("notification-client"),
	}
}

// Send posts a notification to the notification service.
func (c *HTTPNotificationClient) Send(ctx context.Context, n *Notification) error {
	c.logger.Debug("Sending notification", logging.Fields{
		"type":      n.Type,
		"recipient": n.Recipient,
	})

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/notifications", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		httpReq.Header.Set(middleware.HeaderRequestID, requestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Notification request failed", logging.Fields{
			"type":      n.Type,
			"recipient": n.Recipient,
			"error":     err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	c.logger.Info("Notification sent", logging.Fields{
		"type":      n.Type,
		"recipient": n.Recipient,
	})
	return nil
}
