// Package gateway implements the request signing and callback verification
// protocol of the payment processor.
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fieldSeparator joins checksum fields
const fieldSeparator = ","

// Checksum returns hex encoded HMAC-SHA256 of comma joined fields.
// The order of fields is part of the protocol.
func Checksum(secretKey string, fields ...string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(strings.Join(fields, fieldSeparator)))
	return hex.EncodeToString(mac.Sum(nil))
}

// checksumEqual compares checksums in constant time
func checksumEqual(expected, got string) bool {
	return hmac.Equal([]byte(expected), []byte(got))
}
