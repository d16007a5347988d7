package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/events"
)

// OrderUseCase encapsulates the order lifecycle: creation with atomic stock
// reservation, authorized reads, and every non-payment transition.
type OrderUseCase struct {
	orders       repository.OrderRepository
	products     repository.ProductRepository
	reservations repository.ReservationRepository
	carts        repository.CartRepository
	publisher    events.Publisher
	logger       *slog.Logger

	pricing         model.PricingPolicy
	paymentDeadline time.Duration
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	reservations repository.ReservationRepository,
	carts repository.CartRepository,
	publisher events.Publisher,
	logger *slog.Logger,
	pricing model.PricingPolicy,
	paymentDeadline time.Duration,
) *OrderUseCase {
	return &OrderUseCase{
		orders:          orders,
		products:        products,
		reservations:    reservations,
		carts:           carts,
		publisher:       publisher,
		logger:          logger,
		pricing:         pricing,
		paymentDeadline: paymentDeadline,
	}
}

// Create places a new order: prices are snapshotted from the catalog, totals
// are computed once and frozen, and stock for every line item is reserved
// atomically. Either the whole order exists in pending with all holds taken,
// or nothing is persisted.
func (u *OrderUseCase) Create(ctx context.Context, buyerID int64, in model.CreateOrderInput) (*model.Order, error) {
	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := u.products.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	lineItems := make([]model.LineItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, domainErrors.ErrNotFound
		}
		lineItems = append(lineItems, model.LineItem{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		BuyerID:         buyerID,
		LineItems:       lineItems,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Status:          model.OrderStatusPending,
		Amounts:         model.ComputeAmounts(lineItems, u.pricing),
	}
	if in.PaymentMethod == model.PaymentMethodOnline {
		deadline := time.Now().Add(u.paymentDeadline)
		order.PaymentDeadline = &deadline
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// Cash on delivery settles out-of-band, so the cart clears right away;
	// an online-payment cart survives until the payment is confirmed.
	if in.PaymentMethod == model.PaymentMethodCOD {
		if err := u.carts.Clear(ctx, buyerID); err != nil {
			u.logger.Error("clear cart failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		}
	}

	u.publish(ctx, order.ID, model.OrderStatusDraft, model.OrderStatusPending)
	return order, nil
}

// View returns the order if the requester is its buyer, an admin, or a
// seller of at least one line item.
func (u *OrderUseCase) View(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, order) {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

func canView(actor model.Actor, order *model.Order) bool {
	return actor.Role == model.RoleAdmin || order.BuyerID == actor.UserID || order.SoldBy(actor.UserID)
}

// ListForBuyer returns the actor's own orders, newest first.
func (u *OrderUseCase) ListForBuyer(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	return u.orders.ListByBuyer(ctx, actor.UserID, page)
}

// ListForSeller returns orders containing at least one of the actor's items.
func (u *OrderUseCase) ListForSeller(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	if actor.Role != model.RoleSeller && actor.Role != model.RoleAdmin {
		return nil, 0, domainErrors.ErrForbidden
	}
	return u.orders.ListBySeller(ctx, actor.UserID, page)
}

// ListAll returns every order; admin only.
func (u *OrderUseCase) ListAll(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	if actor.Role != model.RoleAdmin {
		return nil, 0, domainErrors.ErrForbidden
	}
	return u.orders.ListAll(ctx, page)
}

// Cancel moves the order to cancelled and releases any held or committed
// reservation exactly once. Buyers may cancel their own order before it is
// paid; sellers and admins may cancel any time before delivery.
func (u *OrderUseCase) Cancel(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleSeller:
		if !order.SoldBy(actor.UserID) {
			return nil, domainErrors.ErrForbidden
		}
	default:
		if order.BuyerID != actor.UserID {
			return nil, domainErrors.ErrForbidden
		}
		if !buyerCancellable(order) {
			return nil, domainErrors.ErrForbidden
		}
	}

	if !model.CanTransition(order.Status, model.OrderStatusCancelled) {
		return nil, domainErrors.ErrInvalidTransition
	}

	if err := u.orders.Transition(ctx, repository.TransitionParams{
		OrderID:      order.ID,
		FromVersion:  order.Version,
		To:           model.OrderStatusCancelled,
		ReleaseStock: true,
	}); err != nil {
		return nil, err
	}

	u.publish(ctx, order.ID, order.Status, model.OrderStatusCancelled)
	return u.orders.GetByID(ctx, order.ID)
}

// Buyers may cancel while no money has settled: pending and
// payment_initiated for any order, plus processing for cash on delivery,
// which never passes through paid.
func buyerCancellable(order *model.Order) bool {
	switch order.Status {
	case model.OrderStatusPending, model.OrderStatusPaymentInitiated:
		return true
	case model.OrderStatusProcessing:
		return order.PaymentMethod == model.PaymentMethodCOD
	}
	return false
}

// Deliver marks the order delivered; only an admin or the seller of every
// line item may do it. Reservations become committed, making the stock
// decrement final for cash-on-delivery orders.
func (u *OrderUseCase) Deliver(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.Role != model.RoleAdmin && !order.SoldEntirelyBy(actor.UserID) {
		return nil, domainErrors.ErrForbidden
	}

	if !model.CanTransition(order.Status, model.OrderStatusDelivered) {
		return nil, domainErrors.ErrInvalidTransition
	}

	if err := u.orders.Transition(ctx, repository.TransitionParams{
		OrderID:     order.ID,
		FromVersion: order.Version,
		To:          model.OrderStatusDelivered,
	}); err != nil {
		return nil, err
	}

	if err := u.reservations.Commit(ctx, order.ID); err != nil {
		u.logger.Error("commit reservation failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}

	u.publish(ctx, order.ID, order.Status, model.OrderStatusDelivered)
	return u.orders.GetByID(ctx, order.ID)
}

// UpdateStatus applies a seller/admin-driven fulfillment transition. Only
// processing, shipped, delivered, and cancelled are reachable this way, and
// only through valid state machine edges.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, actor model.Actor, orderID string, target model.OrderStatus) (*model.Order, error) {
	switch target {
	case model.OrderStatusProcessing, model.OrderStatusShipped:
	case model.OrderStatusDelivered:
		return u.Deliver(ctx, actor, orderID)
	case model.OrderStatusCancelled:
		if actor.Role != model.RoleAdmin && actor.Role != model.RoleSeller {
			return nil, domainErrors.ErrForbidden
		}
		return u.Cancel(ctx, actor, orderID)
	default:
		return nil, domainErrors.ErrValidation
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.Role != model.RoleAdmin && !order.SoldBy(actor.UserID) {
		return nil, domainErrors.ErrForbidden
	}

	// pending -> processing exists only for cash on delivery; online orders
	// must go through payment first.
	if order.Status == model.OrderStatusPending && target == model.OrderStatusProcessing &&
		order.PaymentMethod != model.PaymentMethodCOD {
		return nil, domainErrors.ErrInvalidTransition
	}

	if !model.CanTransition(order.Status, target) {
		return nil, domainErrors.ErrInvalidTransition
	}

	if err := u.orders.Transition(ctx, repository.TransitionParams{
		OrderID:     order.ID,
		FromVersion: order.Version,
		To:          target,
	}); err != nil {
		return nil, err
	}

	u.publish(ctx, order.ID, order.Status, target)
	return u.orders.GetByID(ctx, order.ID)
}

// ExpiredOrders returns online orders still awaiting payment past their
// deadline.
func (u *OrderUseCase) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.ListExpired(ctx, time.Now(), limit)
}

// Expire cancels an abandoned order and releases its stock hold. Losing the
// version race means another writer already moved the order on; that is not
// an error.
func (u *OrderUseCase) Expire(ctx context.Context, order model.Order) error {
	if !model.CanTransition(order.Status, model.OrderStatusCancelled) {
		return nil
	}

	err := u.orders.Transition(ctx, repository.TransitionParams{
		OrderID:      order.ID,
		FromVersion:  order.Version,
		To:           model.OrderStatusCancelled,
		ReleaseStock: true,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrConflict) || errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return err
	}

	u.publish(ctx, order.ID, order.Status, model.OrderStatusCancelled)
	return nil
}

func (u *OrderUseCase) publish(ctx context.Context, orderID string, from, to model.OrderStatus) {
	event := events.StatusChanged{OrderID: orderID, From: from, To: to, At: time.Now()}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.Error("publish status change failed", slog.String("order", orderID), slog.String("error", err.Error()))
	}
}
