package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopflow/ordercore/internal/adapter/gateway"
	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/events"
)

// SignatureVerifier checks a gateway confirmation signature offline.
type SignatureVerifier interface {
	Verify(intentID, paymentID, signature string) bool
}

// PaymentUseCase drives the payment half of the order lifecycle: intent
// creation, verification, failure, and refunds.
type PaymentUseCase struct {
	orders       repository.OrderRepository
	payments     repository.PaymentRepository
	reservations repository.ReservationRepository
	carts        repository.CartRepository
	gateway      gateway.Client
	verifier     SignatureVerifier
	publisher    events.Publisher
	logger       *slog.Logger
	currency     string
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	reservations repository.ReservationRepository,
	carts repository.CartRepository,
	gw gateway.Client,
	verifier SignatureVerifier,
	publisher events.Publisher,
	logger *slog.Logger,
	currency string,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:       orders,
		payments:     payments,
		reservations: reservations,
		carts:        carts,
		gateway:      gw,
		verifier:     verifier,
		publisher:    publisher,
		logger:       logger,
		currency:     currency,
	}
}

// Initiate creates a payment intent at the gateway and moves the order to
// payment_initiated. A retry from payment_failed first re-reserves stock and
// always gets a brand new intent; payment references are never reused. On
// gateway failure the order stays where it was and the call is retryable.
func (u *PaymentUseCase) Initiate(ctx context.Context, actor model.Actor, orderID string) (*model.Order, *model.PaymentAttempt, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if actor.Role != model.RoleAdmin && order.BuyerID != actor.UserID {
		return nil, nil, domainErrors.ErrForbidden
	}
	if order.PaymentMethod != model.PaymentMethodOnline {
		return nil, nil, fmt.Errorf("%w: order is not payable online", domainErrors.ErrValidation)
	}
	if !model.CanTransition(order.Status, model.OrderStatusPaymentInitiated) {
		return nil, nil, domainErrors.ErrInvalidTransition
	}

	// A failed payment released the hold, so the retry competes for stock
	// again before any money moves.
	reserved := false
	if order.Status == model.OrderStatusPaymentFailed {
		if err := u.reservations.Reserve(ctx, order.ID, order.LineItems); err != nil {
			return nil, nil, err
		}
		reserved = true
	}

	intent, err := u.gateway.CreateIntent(ctx, order.ID, order.Amounts.GrandTotal, u.currency)
	if err != nil {
		if reserved {
			u.releaseQuiet(ctx, order.ID)
		}
		return nil, nil, err
	}

	attempt := &model.PaymentAttempt{
		ID:      intent.ExternalID,
		OrderID: order.ID,
		Amount:  order.Amounts.GrandTotal,
		Status:  model.PaymentAttemptCreated,
	}
	if err := u.payments.CreateAttempt(ctx, attempt); err != nil {
		if reserved {
			u.releaseQuiet(ctx, order.ID)
		}
		return nil, nil, err
	}

	if err := u.orders.Transition(ctx, repository.TransitionParams{
		OrderID:     order.ID,
		FromVersion: order.Version,
		To:          model.OrderStatusPaymentInitiated,
		PaymentRef:  intent.ExternalID,
	}); err != nil {
		if reserved {
			u.releaseQuiet(ctx, order.ID)
		}
		return nil, nil, err
	}

	u.publish(ctx, order.ID, order.Status, model.OrderStatusPaymentInitiated)

	updated, err := u.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return updated, attempt, nil
}

// Confirm settles a payment_initiated order from the gateway callback
// fields. A passing signature commits the reservation and marks the order
// paid; a failing one records the failed attempt, releases the hold, and
// moves the order to payment_failed.
func (u *PaymentUseCase) Confirm(ctx context.Context, actor model.Actor, orderID, intentID, paymentID, signature string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && order.BuyerID != actor.UserID {
		return nil, domainErrors.ErrForbidden
	}
	if order.Status != model.OrderStatusPaymentInitiated {
		return nil, domainErrors.ErrInvalidTransition
	}
	if intentID == "" || intentID != order.PaymentRef {
		return nil, fmt.Errorf("%w: unknown payment intent", domainErrors.ErrValidation)
	}

	if !u.verifier.Verify(intentID, paymentID, signature) {
		if err := u.payments.MarkFailed(ctx, intentID, paymentID, signature); err != nil {
			u.logger.Error("mark attempt failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		}
		if err := u.orders.Transition(ctx, repository.TransitionParams{
			OrderID:      order.ID,
			FromVersion:  order.Version,
			To:           model.OrderStatusPaymentFailed,
			ReleaseStock: true,
		}); err != nil {
			return nil, err
		}
		u.publish(ctx, order.ID, order.Status, model.OrderStatusPaymentFailed)
		return nil, fmt.Errorf("%w: invalid payment signature", domainErrors.ErrValidation)
	}

	// The attempt is recorded verified before the order moves: a failure
	// here leaves a retryable payment_initiated order rather than a paid
	// order with no verified attempt.
	if err := u.payments.MarkVerified(ctx, intentID, paymentID, signature); err != nil {
		return nil, err
	}

	// The version check makes this the single winner among concurrent
	// confirmations; the storage index additionally caps verified attempts
	// at one per order.
	if err := u.orders.Transition(ctx, repository.TransitionParams{
		OrderID:     order.ID,
		FromVersion: order.Version,
		To:          model.OrderStatusPaid,
	}); err != nil {
		return nil, err
	}

	if err := u.reservations.Commit(ctx, order.ID); err != nil {
		u.logger.Error("commit reservation failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}

	if err := u.carts.Clear(ctx, order.BuyerID); err != nil {
		u.logger.Error("clear cart failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}

	u.publish(ctx, order.ID, order.Status, model.OrderStatusPaid)
	return u.orders.GetByID(ctx, order.ID)
}

// Attempts lists payment attempts for an order, with the same visibility
// rule as viewing the order.
func (u *PaymentUseCase) Attempts(ctx context.Context, actor model.Actor, orderID string) ([]model.PaymentAttempt, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, order) {
		return nil, domainErrors.ErrForbidden
	}
	return u.payments.ListByOrder(ctx, orderID)
}

// Refund returns the verified payment of an order through the gateway.
// Admin only; the order itself stays in its current state.
func (u *PaymentUseCase) Refund(ctx context.Context, actor model.Actor, orderID string) error {
	if actor.Role != model.RoleAdmin {
		return domainErrors.ErrForbidden
	}

	attempts, err := u.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, attempt := range attempts {
		if attempt.Status == model.PaymentAttemptVerified {
			return u.gateway.Refund(ctx, attempt.PaymentID, attempt.Amount)
		}
	}
	return fmt.Errorf("%w: no verified payment to refund", domainErrors.ErrNotFound)
}

func (u *PaymentUseCase) releaseQuiet(ctx context.Context, orderID string) {
	if err := u.reservations.Release(ctx, orderID); err != nil {
		u.logger.Error("release reservation failed", slog.String("order", orderID), slog.String("error", err.Error()))
	}
}

func (u *PaymentUseCase) publish(ctx context.Context, orderID string, from, to model.OrderStatus) {
	event := events.StatusChanged{OrderID: orderID, From: from, To: to, At: time.Now()}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.Error("publish status change failed", slog.String("order", orderID), slog.String("error", err.Error()))
	}
}

// ErrIsRetryable reports whether the caller may safely retry the operation.
func ErrIsRetryable(err error) bool {
	return errors.Is(err, domainErrors.ErrGatewayUnavailable) || errors.Is(err, domainErrors.ErrConflict)
}
