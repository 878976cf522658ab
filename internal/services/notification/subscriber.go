// Package notification consumes order events and prints human readable
// notifications to the console.
package notification

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dinehub/internal/logger"
	"dinehub/internal/messaging"
	"dinehub/internal/models"
)

// Subscriber handles order event notifications
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	// Graceful shutdown
	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer *messaging.Consumer, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   logger,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start starts the notification subscriber
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	// Set up graceful shutdown
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	// Start message consumption
	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleOrderEvent); err != nil {
			s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	// Wait for shutdown signal or consumer to finish
	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.gracefulShutdown(requestID)
	case <-s.done:
		return nil
	}
}

// handleOrderEvent processes incoming order events
func (s *Subscriber) handleOrderEvent(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var event models.OrderEvent
	if err := messaging.ParseMessage(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse order event", requestID, err, nil)
		return fmt.Errorf("failed to parse order event: %w", err)
	}

	s.logger.Debug("order_event_received", "Received order event", requestID, map[string]interface{}{
		"order_id":       event.OrderID,
		"order_status":   event.OrderStatus,
		"payment_status": event.PaymentStatus,
	})

	s.displayNotification(&event)

	return nil
}

// displayNotification displays a human-readable notification to console
func (s *Subscriber) displayNotification(event *models.OrderEvent) {
	notification := s.formatNotification(event)

	// Print to console (stdout)
	fmt.Println(notification)

	// Also log as structured data
	s.logger.Info("notification_displayed", "Notification displayed to user", "", map[string]interface{}{
		"order_id":       event.OrderID,
		"order_status":   event.OrderStatus,
		"payment_status": event.PaymentStatus,
		"total_amount":   event.TotalAmount.StringFixed(2),
		"timestamp":      event.Timestamp.Format("2006-01-02 15:04:05"),
	})
}

// formatNotification creates a human-readable notification message
func (s *Subscriber) formatNotification(event *models.OrderEvent) string {
	timestamp := event.Timestamp.Format("2006-01-02 15:04:05")

	switch {
	case event.PaymentStatus == string(models.PaymentPaid):
		return fmt.Sprintf(
			"💳 [%s] Order %d has been paid (%s). The kitchen is on it!",
			timestamp,
			event.OrderID,
			event.TotalAmount.StringFixed(2),
		)
	case event.OrderStatus == string(models.OrderPending):
		return fmt.Sprintf(
			"📦 [%s] Order %d placed with %d item(s), total %s. Awaiting payment.",
			timestamp,
			event.OrderID,
			event.ItemCount,
			event.TotalAmount.StringFixed(2),
		)
	default:
		return fmt.Sprintf(
			"📋 [%s] Order %d is now '%s' (payment: '%s').",
			timestamp,
			event.OrderID,
			event.OrderStatus,
			event.PaymentStatus,
		)
	}
}

// gracefulShutdown handles graceful shutdown of the subscriber
func (s *Subscriber) gracefulShutdown(requestID string) error {
	s.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	if s.consumer != nil {
		s.consumer.Close()
	}

	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}
