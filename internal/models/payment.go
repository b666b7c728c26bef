package models

import (
	"go.uber.org/zap/zapcore"
	"net/url"
	"strconv"
	"time"
)

// TransactionDateTimeLayout is the only date format accepted by the processor
const TransactionDateTimeLayout = "2006-01-02 15:04:05"

// PaymentStatus is payment result reported by the processor
type PaymentStatus string

// payment status
const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusFail    PaymentStatus = "fail"
	// PaymentStatusUnverified replaces any reported status when the checksum does not match
	PaymentStatusUnverified PaymentStatus = "unverified"
	PaymentStatusUnknown    PaymentStatus = "unknown"
)

// ParsePaymentStatus maps raw status value to PaymentStatus.
// Values the processor may add later become PaymentStatusUnknown.
func ParsePaymentStatus(s string) PaymentStatus {
	switch ps := PaymentStatus(s); ps {
	case PaymentStatusSuccess, PaymentStatusPending, PaymentStatusFailed, PaymentStatusFail:
		return ps
	default:
		return PaymentStatusUnknown
	}
}

// Credentials identify the merchant at the processor
type Credentials struct {
	ClientID  string
	SecretKey string
}

// String hides the secret key
func (c Credentials) String() string {
	return "Credentials{ClientID:" + c.ClientID + "}"
}

// MarshalLogObject hides the secret key from zap
func (c Credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("client_id", c.ClientID)
	return nil
}

// PaymentRequest is signed payment initiation sent to the processor
type PaymentRequest struct {
	ClientID            string
	CustomerID          string
	CustomerName        string
	Email               string
	OrderNo             string
	Amount              int64
	Currency            string
	TransactionDateTime string
	Checksum            string
	Description         string
}

// Values returns request as processor query parameters
func (pr PaymentRequest) Values() url.Values {
	v := url.Values{}
	v.Set("clientId", pr.ClientID)
	v.Set("customerId", pr.CustomerID)
	v.Set("customerName", pr.CustomerName)
	v.Set("email", pr.Email)
	v.Set("orderNo", pr.OrderNo)
	v.Set("amount", formatAmount(pr.Amount))
	v.Set("currency", pr.Currency)
	v.Set("transactionDateTime", pr.TransactionDateTime)
	v.Set("checksum", pr.Checksum)
	v.Set("description", pr.Description)
	return v
}

// CallbackPayload is payment result received from the processor.
// It is untrusted until the checksum is verified.
type CallbackPayload struct {
	TransactionID string
	PaymentID     string
	Status        string
	OrderNo       string
	Amount        string
	Currency      string
	PaymentType   string
	Checksum      string
}

// VerifiedCallback wraps payload whose checksum matched
type VerifiedCallback struct {
	Payload CallbackPayload
}

// PaymentEvent is published after a callback changed an order
type PaymentEvent struct {
	EventID       string        `json:"event_id"`
	OrderNumber   string        `json:"order_number"`
	TransactionID string        `json:"transaction_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status"`
	PaymentType   string        `json:"payment_type"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func formatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}
