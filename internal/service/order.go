package service

import (
	"context"
	"errors"
	"github.com/rookgm/paygateway/internal/logger"
	"github.com/rookgm/paygateway/internal/models"
	"go.uber.org/zap"
	"strings"
)

// OrderRepository is interface for registering orders placed in the store
type OrderRepository interface {
	// CreateOrder inserts new order
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByNumber returns order by number
	GetOrderByNumber(ctx context.Context, num string) (*models.Order, error)
}

// OrderService implements OrderService interface
type OrderService struct {
	repo OrderRepository
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Register stores order placed in the store, so that it can be paid
func (os *OrderService) Register(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.Currency = strings.ToUpper(order.Currency)
	order.Status = models.OrderStatusPending

	created, err := os.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return nil, err
		}
		logger.Log.Error("create order", zap.String("number", order.Number), zap.Error(err))
		return nil, err
	}

	logger.Log.Debug("order has been registered", zap.String("number", created.Number))

	return created, nil
}

// GetOrder returns order by number
func (os *OrderService) GetOrder(ctx context.Context, number string) (*models.Order, error) {
	return os.repo.GetOrderByNumber(ctx, number)
}
