package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is published on the orders topic exchange when an order is
// placed or paid. Consumers must treat it as informational; the database
// rows are the source of truth.
type OrderEvent struct {
	OrderID       int             `json:"order_id"`
	UserID        string          `json:"user_id"`
	RestaurantID  string          `json:"restaurant_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderStatus   string          `json:"order_status"`
	PaymentStatus string          `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
	Timestamp     time.Time       `json:"timestamp"`
}
