package gateway

import (
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"strconv"
	"testing"
	"time"
)

var testCreds = models.Credentials{
	ClientID:  "client-1",
	SecretKey: "secret",
}

func testOrder() models.Order {
	return models.Order{
		ID:           1,
		Number:       "O1",
		Status:       models.OrderStatusPending,
		Total:        19.99,
		Currency:     "MYR",
		CustomerID:   42,
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		Items: []models.OrderItem{
			{Name: "Gopher plush", Quantity: 2},
			{Name: "Gift wrap", Quantity: 0},
			{Name: "Sticker", Quantity: 1},
		},
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(testOrder(), testCreds)
	require.NoError(t, err)

	want := models.PaymentRequest{
		ClientID:            "client-1",
		CustomerID:          "42",
		CustomerName:        "Jane Doe",
		Email:               "jane@example.com",
		OrderNo:             "O1",
		Amount:              1999,
		Currency:            "myr",
		TransactionDateTime: "2024-03-01 10:00:00",
		Checksum:            "8a7d2f29552dfb3b1bfcfbfbb4abf29832cbf06e7e0e575c8e6b30446848ff4e",
		Description:         "Order O1 - Gopher plush x 2, Sticker x 1",
	}

	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("BuildRequest() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRequest_Deterministic(t *testing.T) {
	order := testOrder()

	first, err := BuildRequest(order, testCreds)
	require.NoError(t, err)
	second, err := BuildRequest(order, testCreds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// snapshot is not changed
	assert.Equal(t, testOrder(), order)
}

func TestBuildRequest_Amount(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		want    int64
		wantErr error
	}{
		{name: "rounds_float_error", total: 19.99, want: 1999},
		{name: "whole_amount", total: 100, want: 10000},
		{name: "zero_amount", total: 0, want: 0},
		{name: "sub_cent_rounding", total: 0.015, want: 2},
		{name: "negative_amount", total: -1, wantErr: models.ErrInvalidAmount},
		{name: "nan_amount", total: math.NaN(), wantErr: models.ErrInvalidAmount},
		{name: "inf_amount", total: math.Inf(1), wantErr: models.ErrInvalidAmount},
		{name: "overflow_amount", total: math.MaxFloat64, wantErr: models.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			order.Total = tt.total

			req, err := BuildRequest(order, testCreds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Amount)
			assert.Equal(t, strconv.FormatInt(tt.want, 10), req.Values().Get("amount"))
		})
	}
}

func TestBuildRequest_Description(t *testing.T) {
	order := testOrder()
	order.Items = nil

	req, err := BuildRequest(order, testCreds)
	require.NoError(t, err)
	assert.Equal(t, "Order O1 - ", req.Description)
}

func TestChecksum_FieldOrder(t *testing.T) {
	fields := []string{"client-1", "42", "Jane Doe", "jane@example.com", "O1", "1999", "myr", "2024-03-01 10:00:00"}
	base := Checksum(testCreds.SecretKey, fields...)

	for i := 0; i < len(fields); i++ {
		for j := i + 1; j < len(fields); j++ {
			swapped := append([]string(nil), fields...)
			swapped[i], swapped[j] = swapped[j], swapped[i]
			assert.NotEqual(t, base, Checksum(testCreds.SecretKey, swapped...), "swap %d and %d", i, j)
		}
	}
}

func TestChecksum_Key(t *testing.T) {
	assert.NotEqual(t, Checksum("secret", "a", "b"), Checksum("other", "a", "b"))
	assert.Len(t, Checksum("secret", "a"), 64)
}

func TestPaymentRequest_Values(t *testing.T) {
	req, err := BuildRequest(testOrder(), testCreds)
	require.NoError(t, err)

	v := req.Values()
	assert.Len(t, v, 10)
	assert.Equal(t, "client-1", v.Get("clientId"))
	assert.Equal(t, "42", v.Get("customerId"))
	assert.Equal(t, "1999", v.Get("amount"))
	assert.Equal(t, "2024-03-01 10:00:00", v.Get("transactionDateTime"))
	assert.Equal(t, req.Checksum, v.Get("checksum"))
	assert.Equal(t, req.Description, v.Get("description"))
}
