package repository

import (
	"context"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// ReservationRepository manages stock holds tied to orders.
type ReservationRepository interface {
	// Reserve acquires fresh holds for every item atomically; used by
	// payment retries after a previous release. Any shortfall rolls the
	// whole batch back.
	Reserve(ctx context.Context, orderID string, items []model.LineItem) error
	// Commit marks held reservations committed. Idempotent: committing an
	// already committed batch is a no-op.
	Commit(ctx context.Context, orderID string) error
	// Release returns held or committed quantities to stock exactly once
	// and marks the batch released. Idempotent.
	Release(ctx context.Context, orderID string) error
	ListByOrder(ctx context.Context, orderID string) ([]model.Reservation, error)
}
