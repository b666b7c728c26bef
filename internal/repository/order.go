package repository

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/rookgm/paygateway/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (number, status, total, currency, customer_id, customer_name, email)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id, created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, name, quantity)
						VALUES ($1, $2, $3)
`
	selectOrderByNumQuery = `
						SELECT id, number, status, total, currency, customer_id, customer_name, email,
						       transaction_id, created_at, paid_at
						FROM orders
						WHERE number = $1
`
	selectOrderItemsQuery = `
						SELECT name, quantity FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	selectOrderStatusQuery = `
						SELECT status FROM orders
						WHERE id = $1
`
	insertOrderNoteQuery = `
						INSERT INTO order_notes (order_id, note)
						VALUES ($1, $2)
`
	// settled orders are never changed
	completePaymentQuery = `
						UPDATE orders
						SET status = 'completed', transaction_id = $2, paid_at = now()
						WHERE id = $1 AND status NOT IN ('processing', 'completed')
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $2, status_reason = $3
						WHERE id = $1 AND status NOT IN ('processing', 'completed')
`
)

// OrderRepository implements OrderStore interface on PostgreSQL
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order with its items
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	err := pgx.BeginFunc(ctx, or.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrderQuery,
			order.Number, order.Status, order.Total, order.Currency,
			order.CustomerID, order.CustomerName, order.Email,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertOrderItemQuery, order.ID, item.Name, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByNumber returns order by number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, num string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByNumQuery, num).Scan(
		&order.ID, &order.Number, &order.Status, &order.Total, &order.Currency, &order.CustomerID,
		&order.CustomerName, &order.Email, &order.TransactionID, &order.CreatedAt, &order.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	rows, err := or.db.Query(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		if err := rows.Scan(&item.Name, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrderStatus reads current order status
func (or *OrderRepository) GetOrderStatus(ctx context.Context, orderID uint64) (models.OrderStatus, error) {
	var status models.OrderStatus
	err := or.db.QueryRow(ctx, selectOrderStatusQuery, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrDataNotFound
		}
		return "", err
	}

	return status, nil
}

// AddOrderNote appends audit note to order
func (or *OrderRepository) AddOrderNote(ctx context.Context, orderID uint64, note string) error {
	_, err := or.db.Exec(ctx, insertOrderNoteQuery, orderID, note)
	if err != nil {
		// foreign key violation
		if errCode := or.db.ErrorCode(err); errCode == "23503" {
			return models.ErrDataNotFound
		}
		return err
	}

	return nil
}

// CompletePayment marks order paid and records transaction id
func (or *OrderRepository) CompletePayment(ctx context.Context, orderID uint64, transactionID string) error {
	cmd, err := or.db.Exec(ctx, completePaymentQuery, orderID, transactionID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return or.notUpdated(ctx, orderID)
	}

	return nil
}

// UpdateOrderStatus sets order status with reason
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint64, status models.OrderStatus, reason string) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, orderID, status, reason)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return or.notUpdated(ctx, orderID)
	}

	return nil
}

// notUpdated tells missing order from settled one
func (or *OrderRepository) notUpdated(ctx context.Context, orderID uint64) error {
	if _, err := or.GetOrderStatus(ctx, orderID); err != nil {
		return err
	}
	return models.ErrOrderSettled
}
