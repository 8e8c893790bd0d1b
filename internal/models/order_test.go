package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to shipped", OrderStatusPending, OrderStatusShipped, false},
		{"confirmed to processing", OrderStatusConfirmed, OrderStatusProcessing, true},
		{"confirmed to cancelled", OrderStatusConfirmed, OrderStatusCancelled, true},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped to cancelled", OrderStatusShipped, OrderStatusCancelled, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"no self transition", OrderStatusPending, OrderStatusPending, false},
		{"unknown source", OrderStatus("misplaced"), OrderStatusConfirmed, false},
		{"unknown target", OrderStatusPending, OrderStatus("misplaced"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestOrder_CanCancel(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		expected bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := &Order{Status: tt.status}
			if order.CanCancel() != tt.expected {
				t.Errorf("CanCancel() = %v, want %v", order.CanCancel(), tt.expected)
			}
		})
	}
}

func TestOrder_CalculateTotal(t *testing.T) {
	order := &Order{
		ShippingCost: decimal.NewFromInt(200),
		Lines: []OrderLine{
			{Quantity: 2, Price: decimal.NewFromInt(2500)},
			{Quantity: 1, Price: decimal.NewFromInt(1800)},
		},
	}

	order.CalculateTotal()

	want := decimal.NewFromInt(7000)
	if !order.TotalAmount.Equal(want) {
		t.Errorf("TotalAmount = %s, want %s", order.TotalAmount, want)
	}
}

func TestOrderLine_Subtotal(t *testing.T) {
	line := OrderLine{Quantity: 3, Price: decimal.RequireFromString("1499.50")}
	want := decimal.RequireFromString("4498.50")
	if !line.Subtotal().Equal(want) {
		t.Errorf("Subtotal() = %s, want %s", line.Subtotal(), want)
	}
}

func TestPaymentMethod_RequiresReference(t *testing.T) {
	if PaymentMethodCashOnDelivery.RequiresReference() {
		t.Error("cash on delivery must not require a reference")
	}
	for _, m := range []PaymentMethod{PaymentMethodJazzCash, PaymentMethodEasyPaisa, PaymentMethodBankTransfer} {
		if !m.RequiresReference() {
			t.Errorf("%s must require a reference", m)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%s) = false, want true", s)
		}
	}
	if ValidOrderStatus(OrderStatus("refunded")) {
		t.Error("unknown status must be invalid")
	}
}
