package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks payment confirmation signatures. The check is a pure
// HMAC-SHA256 over "intentID|paymentID" with the shared key secret; no
// network call is involved, and any mismatch is a hard false.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier around the gateway key secret.
func NewVerifier(keySecret string) *Verifier {
	return &Verifier{secret: []byte(keySecret)}
}

// Verify reports whether the signature matches the intent/payment pair.
func (v *Verifier) Verify(intentID, paymentID, signature string) bool {
	if intentID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
