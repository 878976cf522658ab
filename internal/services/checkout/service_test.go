package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dinehub/internal/cart"
	"dinehub/internal/logger"
	"dinehub/internal/models"
	"dinehub/internal/pricing"
)

// fakeRepo records writes in memory and can be told to fail a given call.
type fakeRepo struct {
	mu sync.Mutex

	orders   []models.Order
	items    []models.OrderItem
	payments []models.Payment

	failOrderInsert  bool
	failItemAtIndex  int // -1 disables
	failStatusUpdate bool

	onInsertOrder   func() // runs after the order row is written
	onInsertPayment func() // runs after the payment row is written
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{failItemAtIndex: -1}
}

var errBoom = errors.New("connection reset")

func (f *fakeRepo) InsertOrder(ctx context.Context, userID, restaurantID string, total decimal.Decimal) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOrderInsert {
		return 0, errBoom
	}
	id := len(f.orders) + 1
	f.orders = append(f.orders, models.Order{
		ID:            id,
		UserID:        userID,
		RestaurantID:  restaurantID,
		TotalAmount:   total,
		OrderStatus:   models.OrderPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now(),
	})
	if f.onInsertOrder != nil {
		f.onInsertOrder()
	}
	return id, nil
}

func (f *fakeRepo) InsertOrderItem(ctx context.Context, orderID, menuItemID, quantity int, customizations json.RawMessage) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	written := 0
	for _, item := range f.items {
		if item.OrderID == orderID {
			written++
		}
	}
	if f.failItemAtIndex >= 0 && written == f.failItemAtIndex {
		return 0, errBoom
	}
	id := len(f.items) + 1
	f.items = append(f.items, models.OrderItem{
		ID:             id,
		OrderID:        orderID,
		MenuItemID:     menuItemID,
		Quantity:       quantity,
		Customizations: customizations,
	})
	return id, nil
}

func (f *fakeRepo) InsertPayment(ctx context.Context, orderID int, method, transactionID string, amount decimal.Decimal) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := len(f.payments) + 1
	f.payments = append(f.payments, models.Payment{
		ID:            id,
		OrderID:       orderID,
		PaymentMethod: method,
		TransactionID: transactionID,
		Amount:        amount,
		PaymentDate:   time.Now(),
		PaymentStatus: "completed",
	})
	if f.onInsertPayment != nil {
		f.onInsertPayment()
	}
	return id, nil
}

func (f *fakeRepo) UpdateOrderStatus(ctx context.Context, orderID int, from, to models.OrderStatus, paymentStatus *models.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStatusUpdate {
		return errBoom
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			if f.orders[i].OrderStatus != from {
				return ErrOrderStatusConflict
			}
			f.orders[i].OrderStatus = to
			if paymentStatus != nil {
				f.orders[i].PaymentStatus = *paymentStatus
			}
			return nil
		}
	}
	return ErrOrderNotFound
}

func (f *fakeRepo) OrderByID(ctx context.Context, orderID int) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.ID == orderID {
			o := order
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (f *fakeRepo) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeRepo) ItemsByOrder(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderItem
	for _, item := range f.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) PaymentsByOrder(ctx context.Context, orderID int) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, payment := range f.payments {
		if payment.OrderID == orderID {
			out = append(out, payment)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (p *fakePublisher) PublishOrderEvent(ctx context.Context, event interface{}, routingKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errBoom
	}
	p.events = append(p.events, routingKey)
	return nil
}

func newTestService(repo Repository, pub EventPublisher) *Service {
	return NewService(repo, pub, logger.New("checkout-test"),
		pricing.DefaultTaxRate, pricing.DefaultTipRate, time.Second)
}

func sessionWithCart(items ...models.LineItem) *cart.Session {
	session := cart.NewSession("sess-1")
	for _, item := range items {
		session.Cart.AddOrIncrement(item, item.Quantity)
	}
	return session
}

func line(id int, name, price string, qty int, customizations ...string) models.LineItem {
	return models.LineItem{
		ItemID:         id,
		Name:           name,
		UnitPrice:      decimal.RequireFromString(price),
		Quantity:       qty,
		Customizations: customizations,
	}
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	result, err := svc.SubmitOrder(context.Background(), sessionWithCart(), "user-1", "rest-1", "req")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if result.Outcome != Aborted {
		t.Errorf("outcome = %s, want aborted", result.Outcome)
	}
	if len(repo.orders) != 0 || len(repo.items) != 0 {
		t.Errorf("empty cart persisted rows: %d orders, %d items", len(repo.orders), len(repo.items))
	}
}

func TestSubmitOrder_Success(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)
	session := sessionWithCart(
		line(1, "Truffle Arancini", "14.99", 2, "Extra truffle oil"),
		line(4, "Grilled Salmon", "28.99", 1, "Medium rare", "No vegetables"),
	)

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}
	if result.Outcome != Completed {
		t.Fatalf("outcome = %s, want completed", result.Outcome)
	}

	if len(repo.orders) != 1 {
		t.Fatalf("created %d orders, want 1", len(repo.orders))
	}
	order := repo.orders[0]
	if result.OrderID != order.ID {
		t.Errorf("result order id %d != stored id %d", result.OrderID, order.ID)
	}
	if want := decimal.RequireFromString("74.3022"); !order.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", order.TotalAmount, want)
	}
	if order.OrderStatus != models.OrderPending || order.PaymentStatus != models.PaymentPending {
		t.Errorf("new order statuses = %s/%s, want pending/pending", order.OrderStatus, order.PaymentStatus)
	}

	if len(repo.items) != 2 {
		t.Fatalf("created %d items, want 2", len(repo.items))
	}
	for _, item := range repo.items {
		if item.OrderID != order.ID {
			t.Errorf("item %d references order %d, want %d", item.ID, item.OrderID, order.ID)
		}
	}
	var payload struct {
		Toppings []string `json:"toppings"`
	}
	if err := json.Unmarshal(repo.items[0].Customizations, &payload); err != nil {
		t.Fatalf("customizations payload is not JSON: %v", err)
	}
	if len(payload.Toppings) != 1 || payload.Toppings[0] != "Extra truffle oil" {
		t.Errorf("customizations payload = %v", payload.Toppings)
	}

	if session.Cart.Len() != 0 {
		t.Errorf("cart not cleared after successful submission")
	}
	if len(pub.events) != 1 || pub.events[0] != "orders.placed" {
		t.Errorf("published events = %v, want [orders.placed]", pub.events)
	}
}

func TestSubmitOrder_SnapshotImmutableDuringSubmission(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	// Mutate the cart after the order row is written but before the item
	// writes. The snapshot was taken at entry, so the mutation must not
	// leak into the submitted order.
	repo.onInsertOrder = func() {
		session.Cart.AddOrIncrement(line(9, "Tiramisu", "7.50", 1), 1)
	}

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	items, _ := repo.ItemsByOrder(context.Background(), result.OrderID)
	if len(items) != 1 || items[0].MenuItemID != 1 {
		t.Fatalf("submitted order does not match the entry snapshot: %v", items)
	}
}

func TestSubmitOrder_OrderInsertFails(t *testing.T) {
	repo := newFakeRepo()
	repo.failOrderInsert = true
	svc := newTestService(repo, nil)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")

	var remote *RemoteWriteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want *RemoteWriteError", err)
	}
	if result.Outcome != Aborted {
		t.Errorf("outcome = %s, want aborted", result.Outcome)
	}
	if session.Cart.Len() != 1 {
		t.Errorf("cart was cleared on a failed submission")
	}
}

func TestSubmitOrder_PartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failItemAtIndex = 1
	svc := newTestService(repo, nil)
	session := sessionWithCart(
		line(1, "Truffle Arancini", "14.99", 2),
		line(4, "Grilled Salmon", "28.99", 1),
	)

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")

	var partial *PartialOrderError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want *PartialOrderError", err)
	}
	if partial.FailedIndex != 1 {
		t.Errorf("failed index = %d, want 1", partial.FailedIndex)
	}
	if result.Outcome != PartialFailure || result.OrderID != partial.OrderID {
		t.Errorf("result = %+v, want partial_failure with order %d", result, partial.OrderID)
	}

	// Already-written rows stay for reconciliation; no rollback.
	if len(repo.orders) != 1 {
		t.Errorf("order row missing after partial failure")
	}
	if len(repo.items) != 1 {
		t.Errorf("expected the first item row to remain, got %d", len(repo.items))
	}
	if session.Cart.Len() == 0 {
		t.Errorf("cart must survive a failed submission so the user can retry")
	}
}

func TestSubmitOrder_DoubleSubmitOnlyOneWins(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	session := sessionWithCart(line(1, "Margherita", "9.99", 2))

	const attempts = 2
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, rejected int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, cart.ErrSubmissionInFlight), errors.Is(err, ErrEmptyCart):
			// loser of the guard, or a retry against the already-cleared cart
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("%d submissions succeeded, want exactly 1", successes)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("%d orders created from one cart, want 1", len(repo.orders))
	}
}

func TestRecordPayment_Success(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	paymentID, err := svc.RecordPayment(context.Background(), &models.RecordPaymentRequest{
		OrderID:       result.OrderID,
		PaymentMethod: "card",
		TransactionID: "tx-123",
		Amount:        result.Totals.Total,
	}, "req")
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	order, _ := repo.OrderByID(context.Background(), result.OrderID)
	if order.OrderStatus != models.OrderProcessing {
		t.Errorf("order status = %s, want processing", order.OrderStatus)
	}
	if order.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment status = %s, want paid", order.PaymentStatus)
	}

	payments, _ := repo.PaymentsByOrder(context.Background(), result.OrderID)
	if len(payments) != 1 || payments[0].ID != paymentID {
		t.Fatalf("payments = %v, want one with id %d", payments, paymentID)
	}
	if payments[0].OrderID != result.OrderID {
		t.Errorf("payment order id = %d, want %d", payments[0].OrderID, result.OrderID)
	}

	if len(pub.events) != 2 || pub.events[1] != "orders.paid" {
		t.Errorf("published events = %v, want [orders.placed orders.paid]", pub.events)
	}
}

func TestRecordPayment_DanglingPayment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	repo.failStatusUpdate = true
	paymentID, err := svc.RecordPayment(context.Background(), &models.RecordPaymentRequest{
		OrderID:       result.OrderID,
		PaymentMethod: "card",
		TransactionID: "tx-123",
		Amount:        result.Totals.Total,
	}, "req")

	var dangling *DanglingPaymentError
	if !errors.As(err, &dangling) {
		t.Fatalf("err = %v, want *DanglingPaymentError", err)
	}
	if dangling.PaymentID != paymentID || dangling.OrderID != result.OrderID {
		t.Errorf("dangling = %+v, want payment %d on order %d", dangling, paymentID, result.OrderID)
	}

	// Payment row is durable even though the order status is stale.
	payments, _ := repo.PaymentsByOrder(context.Background(), result.OrderID)
	if len(payments) != 1 {
		t.Fatalf("payment row missing, got %d", len(payments))
	}
	order, _ := repo.OrderByID(context.Background(), result.OrderID)
	if order.OrderStatus != models.OrderPending {
		t.Errorf("order status = %s, want stale pending", order.OrderStatus)
	}
}

func TestRecordPayment_StatusChangedConcurrently(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	// Cancel the order between the payment write and the guarded status
	// update; the update must match zero rows and leave the cancel intact.
	repo.onInsertPayment = func() {
		repo.orders[0].OrderStatus = models.OrderCancelled
	}

	_, err = svc.RecordPayment(context.Background(), &models.RecordPaymentRequest{
		OrderID:       result.OrderID,
		PaymentMethod: "card",
		TransactionID: "tx-123",
		Amount:        result.Totals.Total,
	}, "req")

	var dangling *DanglingPaymentError
	if !errors.As(err, &dangling) {
		t.Fatalf("err = %v, want *DanglingPaymentError", err)
	}
	if !errors.Is(err, ErrOrderStatusConflict) {
		t.Fatalf("err = %v, want it to wrap ErrOrderStatusConflict", err)
	}

	order, _ := repo.OrderByID(context.Background(), result.OrderID)
	if order.OrderStatus != models.OrderCancelled {
		t.Errorf("order status = %s, want cancelled left untouched", order.OrderStatus)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Errorf("payment status = %s, want pending left untouched", order.PaymentStatus)
	}
}

func TestRecordPayment_RejectsTerminalOrders(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}
	repo.orders[0].OrderStatus = models.OrderCancelled

	_, err = svc.RecordPayment(context.Background(), &models.RecordPaymentRequest{
		OrderID:       result.OrderID,
		PaymentMethod: "card",
		TransactionID: "tx-123",
		Amount:        result.Totals.Total,
	}, "req")
	if err == nil {
		t.Fatalf("expected error paying a cancelled order")
	}
	if len(repo.payments) != 0 {
		t.Errorf("payment row created against a cancelled order")
	}
}

func TestSubmitOrder_PublishFailureDoesNotFailWorkflow(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{fail: true}
	svc := newTestService(repo, pub)
	session := sessionWithCart(line(1, "Margherita", "9.99", 1))

	result, err := svc.SubmitOrder(context.Background(), session, "user-1", "rest-1", "req")
	if err != nil {
		t.Fatalf("SubmitOrder failed on publish error: %v", err)
	}
	if result.Outcome != Completed {
		t.Errorf("outcome = %s, want completed", result.Outcome)
	}
}
