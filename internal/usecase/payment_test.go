package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/test"
)

type paymentFixture struct {
	orders       *test.OrderRepositoryStub
	payments     *test.PaymentRepositoryStub
	reservations *test.ReservationRepositoryStub
	carts        *test.CartRepositoryStub
	gateway      *test.GatewayClientStub
	verifier     *test.VerifierStub
	publisher    *test.PublisherRecorder
	uc           *PaymentUseCase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		orders:       &test.OrderRepositoryStub{},
		payments:     &test.PaymentRepositoryStub{},
		reservations: &test.ReservationRepositoryStub{},
		carts:        &test.CartRepositoryStub{},
		gateway:      &test.GatewayClientStub{},
		verifier:     &test.VerifierStub{Result: true},
		publisher:    &test.PublisherRecorder{},
	}
	f.uc = NewPaymentUseCase(f.orders, f.payments, f.reservations, f.carts, f.gateway, f.verifier, f.publisher, discardLogger(), "INR")
	return f
}

func onlineOrder(status model.OrderStatus, version int64) model.Order {
	return model.Order{
		ID: "o1", BuyerID: 7, Status: status, Version: version,
		PaymentMethod: model.PaymentMethodOnline,
		LineItems:     []model.LineItem{{ProductID: "p1", SellerID: 9, UnitPrice: 10000, Quantity: 1}},
		Amounts:       model.Amounts{ItemsTotal: 10000, GrandTotal: 16700},
	}
}

func buyer() model.Actor { return model.Actor{UserID: 7, Role: model.RoleBuyer} }

func TestPaymentInitiateCreatesIntentAndTransitions(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{onlineOrder(model.OrderStatusPending, 1)}

	order, attempt, err := f.uc.Initiate(context.Background(), buyer(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPaymentInitiated {
		t.Fatalf("expected payment_initiated, got %s", order.Status)
	}
	if attempt.OrderID != "o1" || attempt.Amount != 16700 || attempt.Status != model.PaymentAttemptCreated {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if order.PaymentRef != attempt.ID {
		t.Fatalf("order must reference the new intent: ref=%q intent=%q", order.PaymentRef, attempt.ID)
	}
	if len(f.reservations.Reserved) != 0 {
		t.Fatal("first initiation must reuse the placement hold")
	}
}

func TestPaymentInitiateRejectsCashOnDelivery(t *testing.T) {
	f := newPaymentFixture()
	order := onlineOrder(model.OrderStatusPending, 1)
	order.PaymentMethod = model.PaymentMethodCOD
	f.orders.Orders = []model.Order{order}

	_, _, err := f.uc.Initiate(context.Background(), buyer(), "o1")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.gateway.Intents) != 0 {
		t.Fatal("no gateway call may happen for cash on delivery")
	}
}

func TestPaymentInitiateForbiddenForStranger(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{onlineOrder(model.OrderStatusPending, 1)}

	_, _, err := f.uc.Initiate(context.Background(), model.Actor{UserID: 8, Role: model.RoleBuyer}, "o1")
	if !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestPaymentInitiateGatewayFailureLeavesOrderUntouched(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{onlineOrder(model.OrderStatusPending, 1)}
	f.gateway.CreateIntentFn = func(context.Context, string, int64, string) (*model.PaymentIntent, error) {
		return nil, domainErrors.ErrGatewayUnavailable
	}

	_, _, err := f.uc.Initiate(context.Background(), buyer(), "o1")
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if !ErrIsRetryable(err) {
		t.Fatal("gateway unavailability must be retryable")
	}
	if len(f.orders.Transitions) != 0 {
		t.Fatal("order must stay in its current state on gateway failure")
	}
	if f.orders.Orders[0].Status != model.OrderStatusPending {
		t.Fatalf("order moved unexpectedly to %s", f.orders.Orders[0].Status)
	}
}

func TestPaymentInitiateRetryReservesAgain(t *testing.T) {
	f := newPaymentFixture()
	order := onlineOrder(model.OrderStatusPaymentFailed, 4)
	order.PaymentRef = "intent_old"
	f.orders.Orders = []model.Order{order}

	updated, attempt, err := f.uc.Initiate(context.Background(), buyer(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.reservations.Reserved) != 1 || f.reservations.Reserved[0] != "o1" {
		t.Fatalf("retry must re-reserve stock, got %v", f.reservations.Reserved)
	}
	if attempt.ID == "intent_old" {
		t.Fatal("retry must mint a fresh intent")
	}
	if updated.PaymentRef != attempt.ID {
		t.Fatalf("payment ref not replaced: %q", updated.PaymentRef)
	}
}

func TestPaymentInitiateRetryReleasesOnGatewayFailure(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{onlineOrder(model.OrderStatusPaymentFailed, 4)}
	f.gateway.CreateIntentFn = func(context.Context, string, int64, string) (*model.PaymentIntent, error) {
		return nil, domainErrors.ErrGatewayUnavailable
	}

	_, _, err := f.uc.Initiate(context.Background(), buyer(), "o1")
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if len(f.reservations.Released) != 1 {
		t.Fatal("retry hold must be released when the intent cannot be created")
	}
}

func TestPaymentInitiateRejectsOutOfStockRetry(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{onlineOrder(model.OrderStatusPaymentFailed, 4)}
	f.reservations.ReserveFn = func(context.Context, string, []model.LineItem) error {
		return domainErrors.ErrOutOfStock
	}

	_, _, err := f.uc.Initiate(context.Background(), buyer(), "o1")
	if !errors.Is(err, domainErrors.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
	if len(f.gateway.Intents) != 0 {
		t.Fatal("no intent may be created without stock")
	}
}

func confirmFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := newPaymentFixture()
	order := onlineOrder(model.OrderStatusPaymentInitiated, 2)
	order.PaymentRef = "intent_1"
	f.orders.Orders = []model.Order{order}
	f.payments.Attempts = []model.PaymentAttempt{{
		ID: "intent_1", OrderID: "o1", Amount: 16700, Status: model.PaymentAttemptCreated,
	}}
	return f
}

func TestPaymentConfirmSuccess(t *testing.T) {
	f := confirmFixture(t)

	order, err := f.uc.Confirm(context.Background(), buyer(), "o1", "intent_1", "pay_1", "sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", order.Status)
	}
	if len(f.payments.Verified) != 1 || f.payments.Verified[0] != "intent_1" {
		t.Fatalf("attempt must be marked verified, got %v", f.payments.Verified)
	}
	if len(f.reservations.Committed) != 1 {
		t.Fatal("reservation must be committed on successful payment")
	}
	if len(f.carts.Cleared) != 1 || f.carts.Cleared[0] != 7 {
		t.Fatal("buyer cart must clear after payment confirmation")
	}
}

func TestPaymentConfirmBadSignatureFailsOrder(t *testing.T) {
	f := confirmFixture(t)
	f.verifier.Result = false

	_, err := f.uc.Confirm(context.Background(), buyer(), "o1", "intent_1", "pay_1", "bad")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.orders.Orders[0].Status != model.OrderStatusPaymentFailed {
		t.Fatalf("order must move to payment_failed, got %s", f.orders.Orders[0].Status)
	}
	if len(f.payments.Failed) != 1 {
		t.Fatal("attempt must be marked failed")
	}
	if len(f.orders.Transitions) != 1 || !f.orders.Transitions[0].Params.ReleaseStock {
		t.Fatal("failed verification must release the hold with the transition")
	}
	if len(f.carts.Cleared) != 0 {
		t.Fatal("cart must survive a failed payment")
	}
}

func TestPaymentConfirmRejectsUnknownIntent(t *testing.T) {
	f := confirmFixture(t)

	_, err := f.uc.Confirm(context.Background(), buyer(), "o1", "intent_other", "pay_1", "sig")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.orders.Transitions) != 0 {
		t.Fatal("mismatched intent must not touch the order")
	}
}

func TestPaymentConfirmRequiresPaymentInitiated(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{onlineOrder(model.OrderStatusPaid, 3)}

	_, err := f.uc.Confirm(context.Background(), buyer(), "o1", "intent_1", "pay_1", "sig")
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestPaymentConfirmLosesVersionRace(t *testing.T) {
	f := confirmFixture(t)
	f.orders.TransitionFn = func(context.Context, repository.TransitionParams) error {
		return domainErrors.ErrConflict // concurrent confirmation already won
	}

	_, err := f.uc.Confirm(context.Background(), buyer(), "o1", "intent_1", "pay_1", "sig")
	if !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.reservations.Committed) != 0 {
		t.Fatal("loser must not commit the reservation")
	}
	if len(f.carts.Cleared) != 0 {
		t.Fatal("loser must not clear the cart")
	}
}

func TestPaymentConfirmFailsWhenVerificationNotRecorded(t *testing.T) {
	f := confirmFixture(t)
	f.payments.MarkVerifiedFn = func(context.Context, string, string, string) error {
		return errors.New("connection reset")
	}

	_, err := f.uc.Confirm(context.Background(), buyer(), "o1", "intent_1", "pay_1", "sig")
	if err == nil {
		t.Fatal("confirm must fail when the attempt cannot be recorded")
	}
	if len(f.orders.Transitions) != 0 {
		t.Fatal("order must not move to paid without a verified attempt")
	}
	if f.orders.Orders[0].Status != model.OrderStatusPaymentInitiated {
		t.Fatalf("order must stay retryable, got %s", f.orders.Orders[0].Status)
	}
}

func TestPaymentAttemptsVisibility(t *testing.T) {
	f := confirmFixture(t)

	if _, err := f.uc.Attempts(context.Background(), buyer(), "o1"); err != nil {
		t.Fatalf("buyer must see own attempts: %v", err)
	}
	_, err := f.uc.Attempts(context.Background(), model.Actor{UserID: 50, Role: model.RoleBuyer}, "o1")
	if !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestPaymentRefundAdminOnly(t *testing.T) {
	f := confirmFixture(t)

	err := f.uc.Refund(context.Background(), buyer(), "o1")
	if !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestPaymentRefundUsesVerifiedAttempt(t *testing.T) {
	f := newPaymentFixture()
	f.payments.Attempts = []model.PaymentAttempt{
		{ID: "intent_1", OrderID: "o1", Amount: 16700, Status: model.PaymentAttemptFailed},
		{ID: "intent_2", OrderID: "o1", Amount: 16700, Status: model.PaymentAttemptVerified, PaymentID: "pay_2"},
	}

	admin := model.Actor{UserID: 1, Role: model.RoleAdmin}
	if err := f.uc.Refund(context.Background(), admin, "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.gateway.Refunds) != 1 || f.gateway.Refunds[0] != "pay_2" {
		t.Fatalf("expected refund of pay_2, got %v", f.gateway.Refunds)
	}
}

func TestPaymentRefundWithoutVerifiedAttempt(t *testing.T) {
	f := confirmFixture(t)

	admin := model.Actor{UserID: 1, Role: model.RoleAdmin}
	err := f.uc.Refund(context.Background(), admin, "o1")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(f.gateway.Refunds) != 0 {
		t.Fatal("no refund may be issued")
	}
}
