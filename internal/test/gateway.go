package test

import (
	"context"
	"fmt"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// GatewayClientStub simulates the payment processor.
type GatewayClientStub struct {
	CreateIntentFn func(context.Context, string, int64, string) (*model.PaymentIntent, error)
	RefundFn       func(context.Context, string, int64) error

	Intents []string
	Refunds []string
}

// CreateIntent returns a deterministic intent unless overridden.
func (s *GatewayClientStub) CreateIntent(ctx context.Context, orderID string, amount int64, currency string) (*model.PaymentIntent, error) {
	s.Intents = append(s.Intents, orderID)
	if s.CreateIntentFn != nil {
		return s.CreateIntentFn(ctx, orderID, amount, currency)
	}
	return &model.PaymentIntent{
		ExternalID: fmt.Sprintf("intent_%s_%d", orderID, len(s.Intents)),
		Amount:     amount,
		Currency:   currency,
	}, nil
}

// Refund records the refunded payment id.
func (s *GatewayClientStub) Refund(ctx context.Context, paymentID string, amount int64) error {
	s.Refunds = append(s.Refunds, paymentID)
	if s.RefundFn != nil {
		return s.RefundFn(ctx, paymentID, amount)
	}
	return nil
}

// VerifierStub controls signature verification outcomes.
type VerifierStub struct {
	Result   bool
	VerifyFn func(string, string, string) bool
}

// Verify returns the configured result.
func (s VerifierStub) Verify(intentID, paymentID, signature string) bool {
	if s.VerifyFn != nil {
		return s.VerifyFn(intentID, paymentID, signature)
	}
	return s.Result
}
