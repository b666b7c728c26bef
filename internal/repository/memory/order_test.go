package memory

import (
	"context"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestOrderRepository_CreateOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	order := &models.Order{Number: "1001", Total: 10, Currency: "MYR", Items: []models.OrderItem{{Name: "Tea", Quantity: 1}}}
	created, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateOrder(ctx, order)
	assert.ErrorIs(t, err, models.ErrConflictData)

	// returned orders are copies
	created.Items[0].Name = "Coffee"
	got, err := repo.GetOrderByNumber(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Tea", got.Items[0].Name)
}

func TestOrderRepository_SettledOrderIsNotChanged(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	order, err := repo.CreateOrder(ctx, &models.Order{Number: "1001", Total: 10, Currency: "MYR"})
	require.NoError(t, err)

	require.NoError(t, repo.CompletePayment(ctx, order.ID, "T1"))
	assert.ErrorIs(t, repo.CompletePayment(ctx, order.ID, "T2"), models.ErrOrderSettled)
	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusFailed, "FAILED"), models.ErrOrderSettled)

	got, err := repo.GetOrderByNumber(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)
	assert.Equal(t, "T1", got.TransactionID)
}

func TestOrderRepository_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	_, err := repo.GetOrderByNumber(ctx, "404")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
	_, err = repo.GetOrderStatus(ctx, 404)
	assert.ErrorIs(t, err, models.ErrDataNotFound)
	assert.ErrorIs(t, repo.AddOrderNote(ctx, 404, "note"), models.ErrDataNotFound)
	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, 404, models.OrderStatusFailed, ""), models.ErrDataNotFound)
}
