package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
)

// Client exposes operations against the external payment processor. The
// adapter never retries internally; transient failures surface as
// ErrGatewayUnavailable and the caller decides the retry policy.
type Client interface {
	CreateIntent(ctx context.Context, orderID string, amount int64, currency string) (*model.PaymentIntent, error)
	Refund(ctx context.Context, paymentID string, amount int64) error
}

// HTTPClient implements Client via the processor's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

type intentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Capture  bool   `json:"payment_capture"`
}

// intentResponse mirrors the JSON payload returned by the processor.
type intentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

// NewHTTPClient creates the gateway client with the caller-supplied timeout.
func NewHTTPClient(baseURL, keyID, keySecret string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:   parsed,
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreateIntent registers a pending charge with the processor. Amount is in
// minor currency units. A timeout is ambiguous, not a payment failure, so it
// maps to ErrGatewayUnavailable like any other transport error.
func (c *HTTPClient) CreateIntent(ctx context.Context, orderID string, amount int64, currency string) (*model.PaymentIntent, error) {
	payload, err := json.Marshal(intentRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  "receipt_" + orderID,
		Capture:  true,
	})
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/v1/intents", payload)
	if err != nil {
		return nil, err
	}

	var data intentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("gateway returned intent without id")
	}

	return &model.PaymentIntent{
		ExternalID: data.ID,
		Amount:     data.Amount,
		Currency:   data.Currency,
		Raw:        body,
	}, nil
}

// Refund asks the processor to return a captured payment.
func (c *HTTPClient) Refund(ctx context.Context, paymentID string, amount int64) error {
	payload, err := json.Marshal(refundRequest{Amount: amount})
	if err != nil {
		return err
	}
	_, err = c.post(ctx, path.Join("/v1/payments", paymentID, "refund"), payload)
	return err
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode >= 500:
		c.logger.Error("gateway request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGatewayUnavailable, resp.Status)
	default:
		return nil, fmt.Errorf("gateway rejected request: %s", resp.Status)
	}
}
