// Package memory keeps orders in process memory.
// It serves development runs without DATABASE_URI and tests.
package memory

import (
	"context"
	"github.com/rookgm/paygateway/internal/models"
	"sync"
	"time"
)

// Note is order audit note
type Note struct {
	OrderID   uint64
	Text      string
	CreatedAt time.Time
}

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	mu       sync.RWMutex
	orders   map[uint64]*models.Order
	byNumber map[string]uint64
	notes    []Note
	reasons  map[uint64][]string
	nextID   uint64
	now      func() time.Time
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:   make(map[uint64]*models.Order),
		byNumber: make(map[string]uint64),
		reasons:  make(map[uint64][]string),
		now:      time.Now,
	}
}

// CreateOrder stores a copy of order, it returns ErrConflictData for known number
func (or *OrderRepository) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	or.mu.Lock()
	defer or.mu.Unlock()

	if _, ok := or.byNumber[order.Number]; ok {
		return nil, models.ErrConflictData
	}

	or.nextID++
	stored := cloneOrder(order)
	stored.ID = or.nextID
	if stored.Status == "" {
		stored.Status = models.OrderStatusPending
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = or.now()
	}

	or.orders[stored.ID] = stored
	or.byNumber[stored.Number] = stored.ID

	return cloneOrder(stored), nil
}

// GetOrderByNumber returns order by number
func (or *OrderRepository) GetOrderByNumber(_ context.Context, num string) (*models.Order, error) {
	or.mu.RLock()
	defer or.mu.RUnlock()

	id, ok := or.byNumber[num]
	if !ok {
		return nil, models.ErrDataNotFound
	}

	return cloneOrder(or.orders[id]), nil
}

// GetOrderStatus reads current order status
func (or *OrderRepository) GetOrderStatus(_ context.Context, orderID uint64) (models.OrderStatus, error) {
	or.mu.RLock()
	defer or.mu.RUnlock()

	order, ok := or.orders[orderID]
	if !ok {
		return "", models.ErrDataNotFound
	}

	return order.Status, nil
}

// AddOrderNote appends audit note to order
func (or *OrderRepository) AddOrderNote(_ context.Context, orderID uint64, note string) error {
	or.mu.Lock()
	defer or.mu.Unlock()

	if _, ok := or.orders[orderID]; !ok {
		return models.ErrDataNotFound
	}

	or.notes = append(or.notes, Note{OrderID: orderID, Text: note, CreatedAt: or.now()})
	return nil
}

// CompletePayment marks order paid and records transaction id
func (or *OrderRepository) CompletePayment(_ context.Context, orderID uint64, transactionID string) error {
	or.mu.Lock()
	defer or.mu.Unlock()

	order, err := or.unsettled(orderID)
	if err != nil {
		return err
	}

	paidAt := or.now()
	order.Status = models.OrderStatusCompleted
	order.TransactionID = transactionID
	order.PaidAt = &paidAt

	return nil
}

// UpdateOrderStatus sets order status with reason
func (or *OrderRepository) UpdateOrderStatus(_ context.Context, orderID uint64, status models.OrderStatus, reason string) error {
	or.mu.Lock()
	defer or.mu.Unlock()

	order, err := or.unsettled(orderID)
	if err != nil {
		return err
	}

	order.Status = status
	or.reasons[orderID] = append(or.reasons[orderID], reason)

	return nil
}

// Notes returns audit notes of order
func (or *OrderRepository) Notes(orderID uint64) []string {
	or.mu.RLock()
	defer or.mu.RUnlock()

	var notes []string
	for _, n := range or.notes {
		if n.OrderID == orderID {
			notes = append(notes, n.Text)
		}
	}
	return notes
}

// Reasons returns reasons of status changes of order
func (or *OrderRepository) Reasons(orderID uint64) []string {
	or.mu.RLock()
	defer or.mu.RUnlock()

	return append([]string(nil), or.reasons[orderID]...)
}

// unsettled returns stored order unless it is settled, caller holds the lock
func (or *OrderRepository) unsettled(orderID uint64) (*models.Order, error) {
	order, ok := or.orders[orderID]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	if order.Status.IsSettled() {
		return nil, models.ErrOrderSettled
	}
	return order, nil
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	if o.PaidAt != nil {
		paidAt := *o.PaidAt
		c.PaidAt = &paidAt
	}
	return &c
}
