package gateway

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/rookgm/paygateway/internal/models"
	"net/url"
	"reflect"
	"strings"
)

var validate = newValidator()

// newValidator reports fields by their query parameter names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	return v
}

// callbackQuery holds callback parameters, nil means the parameter is absent
type callbackQuery struct {
	TransactionID *string `validate:"required" query:"transactionId"`
	PaymentID     *string `validate:"required" query:"paymentId"`
	Status        *string `validate:"required" query:"status"`
	OrderNo       *string `validate:"required" query:"orderNo"`
	Amount        *string `validate:"required" query:"amount"`
	Currency      *string `validate:"required" query:"currency"`
	PaymentType   *string `validate:"required" query:"paymentType"`
}

// ParseCallback parses callback query string.
// It only checks that required parameters are present.
func ParseCallback(rawQuery string) (models.CallbackPayload, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return models.CallbackPayload{}, models.ErrEmptyQuery
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return models.CallbackPayload{}, fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}

	q := callbackQuery{
		TransactionID: param(values, "transactionId"),
		PaymentID:     param(values, "paymentId"),
		Status:        param(values, "status"),
		OrderNo:       param(values, "orderNo"),
		Amount:        param(values, "amount"),
		Currency:      param(values, "currency"),
		PaymentType:   param(values, "paymentType"),
	}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return models.CallbackPayload{}, fmt.Errorf("%w: missing %s", models.ErrMalformedPayload, strings.Join(missing, ", "))
		}
		return models.CallbackPayload{}, err
	}

	return models.CallbackPayload{
		TransactionID: *q.TransactionID,
		PaymentID:     *q.PaymentID,
		Status:        *q.Status,
		OrderNo:       *q.OrderNo,
		Amount:        *q.Amount,
		Currency:      *q.Currency,
		PaymentType:   *q.PaymentType,
		Checksum:      values.Get("checksum"),
	}, nil
}

// Verify parses callback query and checks its checksum.
// On checksum mismatch it returns *models.VerificationError holding the parsed payload.
func Verify(rawQuery string, creds models.Credentials) (models.VerifiedCallback, error) {
	payload, err := ParseCallback(rawQuery)
	if err != nil {
		return models.VerifiedCallback{}, err
	}

	// callback fields differ from the request fields, processor signs them in this order
	expected := Checksum(creds.SecretKey,
		payload.TransactionID,
		payload.PaymentID,
		payload.Status,
		payload.OrderNo,
		payload.Amount,
		payload.Currency,
		payload.PaymentType,
	)

	if !checksumEqual(expected, payload.Checksum) {
		return models.VerifiedCallback{}, models.NewVerificationError(payload)
	}

	return models.VerifiedCallback{Payload: payload}, nil
}

func param(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}
	v := values.Get(key)
	return &v
}
