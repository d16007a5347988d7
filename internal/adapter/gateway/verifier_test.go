package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(secret, intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifierAcceptsValidSignature(t *testing.T) {
	v := NewVerifier("key_secret")

	sig := signPayload("key_secret", "intent_1", "pay_1")
	if !v.Verify("intent_1", "pay_1", sig) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	v := NewVerifier("key_secret")

	sig := signPayload("other_secret", "intent_1", "pay_1")
	if v.Verify("intent_1", "pay_1", sig) {
		t.Fatal("signature from a different secret must not verify")
	}
}

func TestVerifierRejectsSwappedFields(t *testing.T) {
	v := NewVerifier("key_secret")

	sig := signPayload("key_secret", "intent_1", "pay_1")
	if v.Verify("pay_1", "intent_1", sig) {
		t.Fatal("swapped fields must not verify")
	}
	if v.Verify("intent_2", "pay_1", sig) {
		t.Fatal("different intent must not verify")
	}
}

func TestVerifierRejectsEmptyFields(t *testing.T) {
	v := NewVerifier("key_secret")

	sig := signPayload("key_secret", "intent_1", "pay_1")
	if v.Verify("", "pay_1", sig) || v.Verify("intent_1", "", sig) || v.Verify("intent_1", "pay_1", "") {
		t.Fatal("empty fields must never verify")
	}
}
