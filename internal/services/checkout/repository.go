package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"dinehub/internal/database"
	"dinehub/internal/models"
)

// Repository defines the persistence operations the workflow needs. The
// remote store guarantees per-row durability only; there is no multi-row
// transaction across these calls.
type Repository interface {
	InsertOrder(ctx context.Context, userID, restaurantID string, total decimal.Decimal) (int, error)
	InsertOrderItem(ctx context.Context, orderID, menuItemID, quantity int, customizations json.RawMessage) (int, error)
	InsertPayment(ctx context.Context, orderID int, method, transactionID string, amount decimal.Decimal) (int, error)
	// UpdateOrderStatus moves the order from status `from` to `to`; when the
	// stored status no longer matches `from` it returns ErrOrderStatusConflict
	// and writes nothing.
	UpdateOrderStatus(ctx context.Context, orderID int, from, to models.OrderStatus, paymentStatus *models.PaymentStatus) error

	OrderByID(ctx context.Context, orderID int) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ItemsByOrder(ctx context.Context, orderID int) ([]models.OrderItem, error)
	PaymentsByOrder(ctx context.Context, orderID int) ([]models.Payment, error)
}

// PostgresRepository implements Repository over the pgx pool.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a repository backed by PostgreSQL.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertOrder(ctx context.Context, userID, restaurantID string, total decimal.Decimal) (int, error) {
	var id int
	var createdAt time.Time
	err := r.db.QueryRow(ctx, database.InsertOrderSQL, userID, restaurantID, total).Scan(&id, &createdAt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepository) InsertOrderItem(ctx context.Context, orderID, menuItemID, quantity int, customizations json.RawMessage) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, database.InsertOrderItemSQL, orderID, menuItemID, quantity, customizations).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepository) InsertPayment(ctx context.Context, orderID int, method, transactionID string, amount decimal.Decimal) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, database.InsertPaymentSQL, orderID, method, transactionID, amount).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, orderID int, from, to models.OrderStatus, paymentStatus *models.PaymentStatus) error {
	var id int
	err := r.db.QueryRow(ctx, database.UpdateOrderStatusSQL, to, paymentStatus, orderID, from).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderStatusConflict
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) OrderByID(ctx context.Context, orderID int) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRow(ctx, database.GetOrderByIDSQL, orderID).Scan(
		&order.ID,
		&order.UserID,
		&order.RestaurantID,
		&order.TotalAmount,
		&order.OrderStatus,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, database.GetOrdersByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.RestaurantID,
			&order.TotalAmount,
			&order.OrderStatus,
			&order.PaymentStatus,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) ItemsByOrder(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, database.GetOrderItemsByOrderSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Customizations)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) PaymentsByOrder(ctx context.Context, orderID int) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx, database.GetPaymentsByOrderSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.OrderID,
			&payment.PaymentMethod,
			&payment.TransactionID,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.PaymentStatus,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
