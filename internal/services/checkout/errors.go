package checkout

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is returned when submission is attempted on an empty snapshot.
// Nothing is persisted in that case.
var ErrEmptyCart = errors.New("cannot submit an order for an empty cart")

// ErrOrderNotFound is returned by reads for an unknown order id.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderStatusConflict is returned by the status update when the order no
// longer holds the status the caller read, so the guarded UPDATE matched no
// row.
var ErrOrderStatusConflict = errors.New("order status changed concurrently")

// PartialOrderError reports that the order row was created but writing its
// items stopped at FailedIndex. The rows already written are NOT rolled back;
// the order needs operator reconciliation or a compensating delete.
type PartialOrderError struct {
	OrderID     int
	FailedIndex int
	Err         error
}

func (e *PartialOrderError) Error() string {
	return fmt.Sprintf("order %d persisted but item %d failed: %v", e.OrderID, e.FailedIndex, e.Err)
}

func (e *PartialOrderError) Unwrap() error { return e.Err }

// DanglingPaymentError reports that the payment row was created but the
// dependent order status update failed. The payment is durable and the order
// status is stale; a reconciliation pass has to repair it.
type DanglingPaymentError struct {
	OrderID   int
	PaymentID int
	Err       error
}

func (e *DanglingPaymentError) Error() string {
	return fmt.Sprintf("payment %d recorded for order %d but status update failed: %v", e.PaymentID, e.OrderID, e.Err)
}

func (e *DanglingPaymentError) Unwrap() error { return e.Err }

// RemoteWriteError wraps a single failed write against the remote store.
// The workflow never retries these; the failure is surfaced so the user can
// be offered an explicit retry.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote write %s failed: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }
