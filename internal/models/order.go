package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents the payment status of an order
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// CanTransitionTo reports whether an order status change is allowed.
// pending -> processing (payment) or cancelled; processing -> completed.
// completed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCancelled
	case OrderProcessing:
		return next == OrderCompleted
	default:
		return false
	}
}

// Order represents one checkout. TotalAmount is the total computed from the
// cart snapshot at submission time; it is never recomputed afterwards.
type Order struct {
	ID            int             `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	RestaurantID  string          `json:"restaurant_id" db:"restaurant_id"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	OrderStatus   OrderStatus     `json:"order_status" db:"order_status"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// OrderItem is one persisted line of an order. Rows are immutable after
// creation and are deleted with their owning order.
type OrderItem struct {
	ID             int             `json:"id" db:"id"`
	OrderID        int             `json:"order_id" db:"order_id"`
	MenuItemID     int             `json:"menu_item_id" db:"menu_item_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	Customizations json.RawMessage `json:"customizations" db:"customizations"`
}

// Payment records an external payment confirmation for an order
type Payment struct {
	ID            int             `json:"id" db:"id"`
	OrderID       int             `json:"order_id" db:"order_id"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
}

// CustomizationsPayload is the structured payload stored on an order item.
func CustomizationsPayload(customizations []string) (json.RawMessage, error) {
	payload := map[string]interface{}{}
	if len(customizations) > 0 {
		payload["toppings"] = customizations
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customizations: %w", err)
	}
	return raw, nil
}

// SubmitOrderRequest represents the request body for checkout
type SubmitOrderRequest struct {
	UserID       string     `json:"user_id"`
	RestaurantID string     `json:"restaurant_id"`
	Items        []LineItem `json:"items"`
}

// Validate checks the submit request fields
func (req *SubmitOrderRequest) Validate() error {
	if req.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if req.RestaurantID == "" {
		return fmt.Errorf("restaurant_id is required")
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.ItemID <= 0 {
			return fmt.Errorf("%s.item_id is required", prefix)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%s.quantity must be at least 1", prefix)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%s.unit_price must not be negative", prefix)
		}
	}
	return nil
}

// RecordPaymentRequest represents the request body for recording a payment
// confirmation obtained from the external processor.
type RecordPaymentRequest struct {
	OrderID       int             `json:"order_id"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// Validate checks the payment request fields
func (req *RecordPaymentRequest) Validate() error {
	if req.OrderID <= 0 {
		return fmt.Errorf("order_id is required")
	}
	if req.PaymentMethod == "" {
		return fmt.Errorf("payment_method is required")
	}
	if req.TransactionID == "" {
		return fmt.Errorf("transaction_id is required")
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
