package repository

import (
	"context"
	"time"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// Page selects a slice of a newest-first listing.
type Page struct {
	Number int
	Size   int
}

// TransitionParams describes a single validated status change. FromVersion
// must match the persisted row or the transition fails with a conflict.
type TransitionParams struct {
	OrderID     string
	FromVersion int64
	To          model.OrderStatus
	// PaymentRef replaces the order's payment reference when non-empty.
	PaymentRef string
	// ReleaseStock returns any held or committed reservation of the order
	// to stock in the same transaction as the status change.
	ReleaseStock bool
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists the order with its line items and reserves stock for
	// every item atomically: either all items reserve or nothing is written.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64, page Page) ([]model.Order, int, error)
	ListBySeller(ctx context.Context, sellerID int64, page Page) ([]model.Order, int, error)
	ListAll(ctx context.Context, page Page) ([]model.Order, int, error)
	// Transition applies a status change with an optimistic version check
	// and stamps the timestamp owned by the target status.
	Transition(ctx context.Context, params TransitionParams) error
	// ListExpired returns online-payment orders still awaiting payment past
	// their deadline.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Order, error)
}
