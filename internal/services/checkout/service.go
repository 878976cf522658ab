package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"dinehub/internal/cart"
	"dinehub/internal/logger"
	"dinehub/internal/messaging"
	"dinehub/internal/models"
	"dinehub/internal/pricing"
)

// Outcome enumerates how a submission ended.
type Outcome string

const (
	// Completed means the order and every item row were written.
	Completed Outcome = "completed"
	// PartialFailure means the order row exists but one or more item rows
	// are missing. The result carries the failing index.
	PartialFailure Outcome = "partial_failure"
	// Aborted means nothing was persisted.
	Aborted Outcome = "aborted"
)

// SubmitResult is the typed outcome of one submission attempt.
type SubmitResult struct {
	Outcome     Outcome        `json:"outcome"`
	OrderID     int            `json:"order_id,omitempty"`
	FailedIndex int            `json:"failed_index,omitempty"`
	Totals      pricing.Totals `json:"totals"`
}

// EventPublisher is the slice of the messaging publisher the workflow uses.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event interface{}, routingKey string) error
}

// Service sequences the order, item and payment writes. The writes are
// dependent but NOT atomic: each commits independently at the store, which
// is where the partial-failure outcomes come from.
type Service struct {
	repo         Repository
	publisher    EventPublisher
	logger       *logger.Logger
	taxRate      decimal.Decimal
	tipRate      decimal.Decimal
	writeTimeout time.Duration
}

// NewService creates the checkout service. publisher may be nil when events
// are disabled.
func NewService(repo Repository, publisher EventPublisher, log *logger.Logger, taxRate, tipRate decimal.Decimal, writeTimeout time.Duration) *Service {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Service{
		repo:         repo,
		publisher:    publisher,
		logger:       log,
		taxRate:      taxRate,
		tipRate:      tipRate,
		writeTimeout: writeTimeout,
	}
}

// Totals prices a snapshot with the configured rates.
func (s *Service) Totals(snapshot []models.LineItem) pricing.Totals {
	return pricing.ComputeTotals(snapshot, s.taxRate, s.tipRate)
}

// SubmitOrder turns the session's cart into a persisted order. The snapshot
// is taken once at entry; concurrent cart mutation after that point does not
// affect the submitted order. On full success the session's cart is cleared.
//
// Once the order row has committed there is no abort path; an item failure
// surfaces as *PartialOrderError with the rows left in place for
// reconciliation.
func (s *Service) SubmitOrder(ctx context.Context, session *cart.Session, userID, restaurantID, requestID string) (SubmitResult, error) {
	if err := session.BeginSubmit(); err != nil {
		return SubmitResult{Outcome: Aborted}, err
	}
	defer session.EndSubmit()

	snapshot := session.Cart.Snapshot()
	totals := s.Totals(snapshot)
	result := SubmitResult{Outcome: Aborted, Totals: totals}

	if len(snapshot) == 0 {
		return result, ErrEmptyCart
	}

	orderID, err := s.insertOrder(ctx, userID, restaurantID, totals.Total)
	if err != nil {
		return result, &RemoteWriteError{Op: "insert order", Err: err}
	}

	s.logger.Debug("order_created", "Order row created", requestID, map[string]interface{}{
		"order_id":     orderID,
		"total_amount": totals.Total.StringFixed(2),
		"item_count":   len(snapshot),
	})

	for i, line := range snapshot {
		if err := s.insertOrderItem(ctx, orderID, line); err != nil {
			s.logger.Error("order_item_write_failed", "Order left partially written", requestID, err, map[string]interface{}{
				"order_id":     orderID,
				"failed_index": i,
			})
			result.Outcome = PartialFailure
			result.OrderID = orderID
			result.FailedIndex = i
			return result, &PartialOrderError{OrderID: orderID, FailedIndex: i, Err: err}
		}
	}

	session.Cart.Clear()

	result.Outcome = Completed
	result.OrderID = orderID

	s.publishEvent(ctx, requestID, messaging.RoutingKeyOrderPlaced, models.OrderEvent{
		OrderID:       orderID,
		UserID:        userID,
		RestaurantID:  restaurantID,
		TotalAmount:   totals.Total,
		OrderStatus:   string(models.OrderPending),
		PaymentStatus: string(models.PaymentPending),
		ItemCount:     len(snapshot),
		Timestamp:     time.Now().UTC(),
	})

	return result, nil
}

// RecordPayment persists an external payment confirmation, then performs the
// dependent order update to paid/processing. Failure of the follow-up update
// after the payment row committed is a *DanglingPaymentError.
func (s *Service) RecordPayment(ctx context.Context, req *models.RecordPaymentRequest, requestID string) (int, error) {
	order, err := s.repo.OrderByID(ctx, req.OrderID)
	if err != nil {
		return 0, err
	}
	if !order.OrderStatus.CanTransitionTo(models.OrderProcessing) {
		return 0, fmt.Errorf("order %d is %s and cannot accept a payment", order.ID, order.OrderStatus)
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	paymentID, err := s.repo.InsertPayment(writeCtx, req.OrderID, req.PaymentMethod, req.TransactionID, req.Amount)
	cancel()
	if err != nil {
		return 0, &RemoteWriteError{Op: "insert payment", Err: err}
	}

	paid := models.PaymentPaid
	writeCtx, cancel = context.WithTimeout(ctx, s.writeTimeout)
	err = s.repo.UpdateOrderStatus(writeCtx, req.OrderID, order.OrderStatus, models.OrderProcessing, &paid)
	cancel()
	if err != nil {
		s.logger.Error("payment_status_update_failed", "Payment recorded but order status is stale", requestID, err, map[string]interface{}{
			"order_id":   req.OrderID,
			"payment_id": paymentID,
		})
		return paymentID, &DanglingPaymentError{OrderID: req.OrderID, PaymentID: paymentID, Err: err}
	}

	s.publishEvent(ctx, requestID, messaging.RoutingKeyOrderPaid, models.OrderEvent{
		OrderID:       req.OrderID,
		UserID:        order.UserID,
		RestaurantID:  order.RestaurantID,
		TotalAmount:   order.TotalAmount,
		OrderStatus:   string(models.OrderProcessing),
		PaymentStatus: string(models.PaymentPaid),
		Timestamp:     time.Now().UTC(),
	})

	return paymentID, nil
}

// OrderByID returns one order.
func (s *Service) OrderByID(ctx context.Context, orderID int) (*models.Order, error) {
	return s.repo.OrderByID(ctx, orderID)
}

// OrdersByUser returns the user's orders, newest first.
func (s *Service) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.repo.OrdersByUser(ctx, userID)
}

// ItemsByOrder returns the persisted items of an order.
func (s *Service) ItemsByOrder(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	return s.repo.ItemsByOrder(ctx, orderID)
}

// PaymentsByOrder returns the payments recorded against an order.
func (s *Service) PaymentsByOrder(ctx context.Context, orderID int) ([]models.Payment, error) {
	return s.repo.PaymentsByOrder(ctx, orderID)
}

func (s *Service) insertOrder(ctx context.Context, userID, restaurantID string, total decimal.Decimal) (int, error) {
	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return s.repo.InsertOrder(writeCtx, userID, restaurantID, total)
}

func (s *Service) insertOrderItem(ctx context.Context, orderID int, line models.LineItem) error {
	payload, err := models.CustomizationsPayload(line.Customizations)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	_, err = s.repo.InsertOrderItem(writeCtx, orderID, line.ItemID, line.Quantity, payload)
	return err
}

// publishEvent emits an order event. The rows are already durable, so a
// publish failure is logged and swallowed rather than failing the workflow.
func (s *Service) publishEvent(ctx context.Context, requestID, routingKey string, event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event, routingKey); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", requestID, err, map[string]interface{}{
			"order_id":    event.OrderID,
			"routing_key": routingKey,
		})
	}
}
