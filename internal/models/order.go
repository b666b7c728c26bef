package models

import "time"

// OrderStatus is order lifecycle state kept by the store
type OrderStatus string

//pending — заказ создан, оплата не получена;
//on-hold — платёж не подтверждён, требуется ручная проверка;
//processing — оплата получена, заказ обрабатывается магазином;
//completed — оплата получена, заказ выполнен;
//failed — платёж отклонён.

// order status
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// IsSettled reports whether payment for the order was already accepted.
// No callback may change a settled order.
func (s OrderStatus) IsSettled() bool {
	return s == OrderStatusProcessing || s == OrderStatusCompleted
}

// OrderItem is order line
type OrderItem struct {
	Name     string
	Quantity int
}

// Order is order entity as the store sees it at read time
type Order struct {
	ID            uint64
	Number        string
	Status        OrderStatus
	Total         float64
	Currency      string
	CustomerID    uint64
	CustomerName  string
	Email         string
	TransactionID string
	Items         []OrderItem
	CreatedAt     time.Time
	PaidAt        *time.Time
}
