package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/models"
)

// ValidatePlaceOrderRequest validates checkout input. Stock levels are not
// checked here; the placement transaction does that against live data.
func ValidatePlaceOrderRequest(req *models.PlaceOrderRequest) error {
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id", "user ID is required")
	}

	if err := validateShippingAddress(&req.ShippingAddress); err != nil {
		return err
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCashOnDelivery,
		models.PaymentMethodJazzCash,
		models.PaymentMethodEasyPaisa,
		models.PaymentMethodBankTransfer:
	default:
		return apperrors.NewValidationError("payment_method", "invalid payment method")
	}

	if req.PaymentMethod.RequiresReference() && strings.TrimSpace(req.PaymentReference) == "" {
		return apperrors.NewValidationError("payment_reference", "payment reference is required for "+string(req.PaymentMethod))
	}
	if !req.PaymentMethod.RequiresReference() && req.PaymentReference != "" {
		return apperrors.NewValidationError("payment_reference", "payment reference is not accepted for cash on delivery")
	}

	return nil
}

func validateShippingAddress(addr *models.ShippingAddress) error {
	if len(strings.TrimSpace(addr.FullName)) < 2 {
		return apperrors.NewValidationError("shipping_address.full_name", "full name is required")
	}
	if len(strings.TrimSpace(addr.Phone)) < 10 {
		return apperrors.NewValidationError("shipping_address.phone", "valid phone number is required")
	}
	if len(strings.TrimSpace(addr.Street)) < 5 {
		return apperrors.NewValidationError("shipping_address.street", "street address is required")
	}
	if len(strings.TrimSpace(addr.City)) < 2 {
		return apperrors.NewValidationError("shipping_address.city", "city is required")
	}
	if len(strings.TrimSpace(addr.PostalCode)) < 3 {
		return apperrors.NewValidationError("shipping_address.postal_code", "postal code is required")
	}
	return nil
}

// ValidateUpdateOrderStatusRequest validates a staff transition request.
// Whether the transition is legal from the order's current state is decided
// under the row lock, not here.
func ValidateUpdateOrderStatusRequest(req *models.UpdateOrderStatusRequest) error {
	if req.Status == "" {
		return apperrors.NewValidationError("status", "status is required")
	}
	if !models.ValidOrderStatus(req.Status) {
		return apperrors.NewValidationError("status", "invalid order status")
	}
	return nil
}

// ValidateProductInput validates staff catalog edits.
func ValidateProductInput(in *models.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(in.SKU) == "" {
		return apperrors.NewValidationError("sku", "sku is required")
	}
	if !in.Price.IsPositive() {
		return apperrors.NewValidationError("price", "price must be positive")
	}
	if in.OriginalPrice != nil && in.OriginalPrice.LessThan(in.Price) {
		return apperrors.NewValidationError("original_price", "original price must be at least the current price")
	}
	if in.StockQuantity < 0 {
		return apperrors.NewValidationError("stock_quantity", "stock quantity cannot be negative")
	}
	return nil
}

// ValidateOrderListFilter validates and clamps staff list filters.
func ValidateOrderListFilter(filter *models.OrderListFilter) error {
	if filter.Limit < 0 {
		return apperrors.NewValidationError("limit", "limit cannot be negative")
	}
	if filter.Offset < 0 {
		return apperrors.NewValidationError("offset", "offset cannot be negative")
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Status != nil && !models.ValidOrderStatus(*filter.Status) {
		return apperrors.NewValidationError("status", "invalid order status")
	}
	return nil
}

// ValidateCancellationReason validates an order cancellation reason.
func ValidateCancellationReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidationError("reason", "cancellation reason is required")
	}
	if len(reason) > 500 {
		return apperrors.NewValidationError("reason", "cancellation reason too long (max 500 characters)")
	}
	return nil
}

// SanitizeNotes strips markup characters from free-text notes and bounds
// their length.
func SanitizeNotes(notes string) string {
	notes = strings.ReplaceAll(notes, "<", "&lt;")
	notes = strings.ReplaceAll(notes, ">", "&gt;")
	notes = strings.ReplaceAll(notes, "\"", "&quot;")
	notes = strings.TrimSpace(notes)

	if len(notes) > 1000 {
		notes = notes[:1000]
	}
	return notes
}

// ValidateShippingCost guards the configured flat fee at startup.
func ValidateShippingCost(cost decimal.Decimal) error {
	if cost.LessThan(decimal.Zero) {
		return apperrors.NewValidationError("shipping_cost", "shipping cost cannot be negative")
	}
	return nil
}
