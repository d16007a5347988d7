package repository

import (
	"context"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// PaymentRepository records gateway payment attempts. The storage enforces
// that at most one attempt per order is ever verified.
type PaymentRepository interface {
	CreateAttempt(ctx context.Context, attempt *model.PaymentAttempt) error
	MarkVerified(ctx context.Context, attemptID, paymentID, signature string) error
	MarkFailed(ctx context.Context, attemptID, paymentID, signature string) error
	ListByOrder(ctx context.Context, orderID string) ([]model.PaymentAttempt, error)
}
