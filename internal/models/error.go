package models

import "errors"

var (
	ErrConflictData        = errors.New("data conflicts with existing data")
	ErrDataNotFound        = errors.New("data not found")
	ErrOrderNotFound       = ErrDataNotFound
	ErrOrderSettled        = errors.New("order is already paid")
	ErrInvalidAmount       = errors.New("invalid order amount")
	ErrUnsupportedCurrency = errors.New("currency is not supported by payment gateway")
	ErrEmptyQuery          = errors.New("empty callback query")
	ErrMalformedPayload    = errors.New("malformed callback payload")
	ErrVerificationFailed  = errors.New("callback checksum verification failed")
)

// VerificationError is returned when callback checksum does not match.
// It carries the parsed payload, so that the order still gets an audit note.
type VerificationError struct {
	Payload CallbackPayload
}

// NewVerificationError creates new VerificationError instance
func NewVerificationError(payload CallbackPayload) *VerificationError {
	return &VerificationError{Payload: payload}
}

func (e *VerificationError) Error() string {
	return ErrVerificationFailed.Error() + ": order " + e.Payload.OrderNo
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerificationFailed
}
