package gateway

import (
	"errors"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

const successChecksum = "90743283ce25a1e7faecbefab3f55a3e06f70fe7a3d7cb9e3feaf683ad1d1634"

func callbackValues() url.Values {
	v := url.Values{}
	v.Set("status", "success")
	v.Set("transactionId", "T1")
	v.Set("paymentId", "P1")
	v.Set("orderNo", "O1")
	v.Set("amount", "1999")
	v.Set("currency", "myr")
	v.Set("paymentType", "card")
	v.Set("checksum", successChecksum)
	return v
}

func TestVerify_Success(t *testing.T) {
	cb, err := Verify(callbackValues().Encode(), testCreds)
	require.NoError(t, err)

	assert.Equal(t, models.CallbackPayload{
		TransactionID: "T1",
		PaymentID:     "P1",
		Status:        "success",
		OrderNo:       "O1",
		Amount:        "1999",
		Currency:      "myr",
		PaymentType:   "card",
		Checksum:      successChecksum,
	}, cb.Payload)
}

func TestVerify_RoundTrip(t *testing.T) {
	v := callbackValues()
	v.Set("status", "pending")
	v.Set("checksum", Checksum(testCreds.SecretKey, "T1", "P1", "pending", "O1", "1999", "myr", "card"))

	cb, err := Verify(v.Encode(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, "pending", cb.Payload.Status)
}

func TestVerify_CorruptedField(t *testing.T) {
	for _, key := range []string{"transactionId", "paymentId", "status", "orderNo", "amount", "currency", "paymentType", "checksum"} {
		t.Run(key, func(t *testing.T) {
			v := callbackValues()
			val := []byte(v.Get(key))
			// flip the last character
			if val[len(val)-1] == 'x' {
				val[len(val)-1] = 'y'
			} else {
				val[len(val)-1] = 'x'
			}
			v.Set(key, string(val))

			_, err := Verify(v.Encode(), testCreds)
			require.ErrorIs(t, err, models.ErrVerificationFailed)

			var verr *models.VerificationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, v.Get("orderNo"), verr.Payload.OrderNo)
			assert.Equal(t, v.Get("transactionId"), verr.Payload.TransactionID)
		})
	}
}

func TestVerify_WrongKey(t *testing.T) {
	_, err := Verify(callbackValues().Encode(), models.Credentials{ClientID: "client-1", SecretKey: "other"})
	assert.ErrorIs(t, err, models.ErrVerificationFailed)
}

func TestVerify_MissingChecksum(t *testing.T) {
	v := callbackValues()
	v.Del("checksum")

	_, err := Verify(v.Encode(), testCreds)
	assert.ErrorIs(t, err, models.ErrVerificationFailed)
}

func TestVerify_EmptyQuery(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		_, err := Verify(raw, testCreds)
		assert.ErrorIs(t, err, models.ErrEmptyQuery)
	}
}

func TestParseCallback_MissingField(t *testing.T) {
	for _, key := range []string{"transactionId", "paymentId", "status", "orderNo", "amount", "currency", "paymentType"} {
		t.Run(key, func(t *testing.T) {
			v := callbackValues()
			v.Del(key)

			_, err := ParseCallback(v.Encode())
			require.ErrorIs(t, err, models.ErrMalformedPayload)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestParseCallback_EmptyValueIsPresent(t *testing.T) {
	v := callbackValues()
	v.Set("paymentType", "")

	payload, err := ParseCallback(v.Encode())
	require.NoError(t, err)
	assert.Equal(t, "", payload.PaymentType)
}

func TestParseCallback_BadEscape(t *testing.T) {
	_, err := ParseCallback("status=%zz")
	assert.ErrorIs(t, err, models.ErrMalformedPayload)
}
