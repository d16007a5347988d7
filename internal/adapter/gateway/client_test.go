package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "key_id", "key_secret", time.Second, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, srv
}

func TestCreateIntentSuccess(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotBody intentRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(intentResponse{ID: "intent_1", Amount: 16700, Currency: "INR"})
	})

	intent, err := client.CreateIntent(context.Background(), "o1", 16700, "INR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ExternalID != "intent_1" || intent.Amount != 16700 || intent.Currency != "INR" {
		t.Fatalf("unexpected intent %+v", intent)
	}
	if gotAuthUser != "key_id" || gotAuthPass != "key_secret" {
		t.Fatalf("expected basic auth credentials, got %q/%q", gotAuthUser, gotAuthPass)
	}
	if gotBody.Receipt != "receipt_o1" || !gotBody.Capture || gotBody.Amount != 16700 {
		t.Fatalf("unexpected request payload %+v", gotBody)
	}
}

func TestCreateIntentServerErrorIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreateIntent(context.Background(), "o1", 100, "INR")
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestCreateIntentClientErrorIsNotRetryable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := client.CreateIntent(context.Background(), "o1", 100, "INR")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatal("a 4xx rejection must not look retryable")
	}
}

func TestCreateIntentTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewHTTPClient(srv.URL, "key_id", "key_secret", time.Second, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv.Close() // connection refused from now on

	_, err = client.CreateIntent(context.Background(), "o1", 100, "INR")
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestCreateIntentRejectsMissingID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(intentResponse{Amount: 100})
	})

	if _, err := client.CreateIntent(context.Background(), "o1", 100, "INR"); err == nil {
		t.Fatal("expected error for intent without id")
	}
}

func TestRefundHitsPaymentPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Refund(context.Background(), "pay_1", 16700); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/payments/pay_1/refund" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewHTTPClient("not-a-url", "id", "secret", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}
