package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	token, err := strategy.IssueToken(Claims{UserID: 42, Role: "seller"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "seller" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestHMACStrategyRejectsTamperedToken(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	token, err := strategy.IssueToken(Claims{UserID: 42, Role: "buyer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(token)
	tampered := strings.Replace(string(raw), "42", "43", 1)
	forged := base64.StdEncoding.EncodeToString([]byte(tampered))

	if _, err := strategy.ParseToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestHMACStrategyRejectsWrongSecret(t *testing.T) {
	token, err := NewHMACStrategy("secret", Options{}).IssueToken(Claims{UserID: 1, Role: "buyer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewHMACStrategy("other", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestHMACStrategyRejectsExpiredToken(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	expires := time.Now().Add(-time.Minute).Unix()
	payload := fmt.Sprintf("%d:%s:%d", 1, "buyer", expires)
	token := base64.StdEncoding.EncodeToString([]byte(payload + ":" + strategy.sign(payload)))

	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestHMACStrategyRejectsMalformedInput(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	for _, token := range []string{"", "not-base64!!", base64.StdEncoding.EncodeToString([]byte("only:three:parts"))} {
		if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected invalid token for %q, got %v", token, err)
		}
	}
}

func TestHMACStrategyRejectsRoleWithSeparator(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	if _, err := strategy.IssueToken(Claims{UserID: 1, Role: "a:b"}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, err := strategy.IssueToken(Claims{UserID: 1, Role: ""}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestHMACStrategyName(t *testing.T) {
	if got := NewHMACStrategy("secret", Options{}).Name(); got != "hmac" {
		t.Fatalf("unexpected name %q", got)
	}
}
