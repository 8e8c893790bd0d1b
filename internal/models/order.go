package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethod identifies how the customer pays. Wallet transfers and bank
// transfers are reconciled manually by staff; there is no gateway.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodJazzCash       PaymentMethod = "jazzcash"
	PaymentMethodEasyPaisa      PaymentMethod = "easypaisa"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

// RequiresReference reports whether the method needs a customer-supplied
// transaction reference for manual reconciliation.
func (m PaymentMethod) RequiresReference() bool {
	return m != PaymentMethodCashOnDelivery
}

// PaymentStatus tracks manual reconciliation for non-cash methods.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ShippingAddress is the structured snapshot taken at placement.
type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// Order is immutable once placed except for status, payment status and
// updated_at. TotalAmount is computed once at placement and never
// recomputed.
type Order struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"order_number"`
	UserID           string          `json:"user_id"`
	Status           OrderStatus     `json:"status"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaymentStatus    PaymentStatus   `json:"payment_status,omitempty"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Notes            string          `json:"notes,omitempty"`
	Lines            []OrderLine     `json:"lines"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderLine is a financial record: the price is a snapshot of the product's
// price at order time and is never re-read from the live catalog.
type OrderLine struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// Subtotal is the snapshot price times quantity.
func (l *OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CalculateTotal sets TotalAmount from the line subtotals plus shipping.
func (o *Order) CalculateTotal() {
	total := o.ShippingCost
	for i := range o.Lines {
		total = total.Add(o.Lines[i].Subtotal())
	}
	o.TotalAmount = total
}

// CanCancel reports whether the order is in a cancellable state.
func (o *Order) CanCancel() bool {
	return CanTransition(o.Status, OrderStatusCancelled)
}

// orderTransitions is the closed lifecycle graph. Anything outside it is an
// invalid transition, including self-transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to OrderStatus) bool {
	allowed, ok := orderTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether s is a known lifecycle state.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// PlaceOrderRequest carries everything checkout needs beyond the cart
// itself, which is re-read server-side.
type PlaceOrderRequest struct {
	UserID           string          `json:"user_id"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest is a staff lifecycle transition request.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
	Notes  string      `json:"notes,omitempty"`
}

// SetPaymentStatusRequest is a staff payment reconciliation request.
type SetPaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// OrderListFilter selects orders for staff tooling.
type OrderListFilter struct {
	UserID string
	Status *OrderStatus
	Limit  int
	Offset int
}
