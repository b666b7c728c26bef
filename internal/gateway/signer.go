package gateway

import (
	"fmt"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/shopspring/decimal"
	"math"
	"strconv"
	"strings"
)

// BuildRequest builds signed payment request for order snapshot.
// It does not change the order.
func BuildRequest(order models.Order, creds models.Credentials) (models.PaymentRequest, error) {
	amount, err := minorUnits(order.Total)
	if err != nil {
		return models.PaymentRequest{}, err
	}

	req := models.PaymentRequest{
		ClientID:            creds.ClientID,
		CustomerID:          strconv.FormatUint(order.CustomerID, 10),
		CustomerName:        order.CustomerName,
		Email:               order.Email,
		OrderNo:             order.Number,
		Amount:              amount,
		Currency:            strings.ToLower(order.Currency),
		TransactionDateTime: order.CreatedAt.Format(models.TransactionDateTimeLayout),
		Description:         describe(order),
	}

	req.Checksum = Checksum(creds.SecretKey,
		req.ClientID,
		req.CustomerID,
		req.CustomerName,
		req.Email,
		req.OrderNo,
		strconv.FormatInt(req.Amount, 10),
		req.Currency,
		req.TransactionDateTime,
	)

	return req, nil
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// minorUnits converts order total to amount without decimals, rounding half away from zero
func minorUnits(total float64) (int64, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidAmount, total)
	}
	// float 19.99 * 100 is 1998.9999999999998, decimal keeps 1999
	cents := decimal.NewFromFloat(total).Shift(2).Round(0)
	if cents.GreaterThanOrEqual(maxAmount) {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidAmount, total)
	}

	return cents.IntPart(), nil
}

// describe returns "Order <number> - <item> x <qty>, ..."
func describe(order models.Order) string {
	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Quantity == 0 {
			continue
		}
		items = append(items, fmt.Sprintf("%s x %d", item.Name, item.Quantity))
	}

	return fmt.Sprintf("Order %s - %s", order.Number, strings.Join(items, ", "))
}
