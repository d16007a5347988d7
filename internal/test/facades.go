package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateOrderFn  func(context.Context, int64, model.CreateOrderInput) (*model.Order, error)
	OrderFn        func(context.Context, model.Actor, string) (*model.Order, error)
	BuyerOrdersFn  func(context.Context, model.Actor, repository.Page) ([]model.Order, int, error)
	SellerOrdersFn func(context.Context, model.Actor, repository.Page) ([]model.Order, int, error)
	AllOrdersFn    func(context.Context, model.Actor, repository.Page) ([]model.Order, int, error)
	CancelFn       func(context.Context, model.Actor, string) (*model.Order, error)
	DeliverFn      func(context.Context, model.Actor, string) (*model.Order, error)
	UpdateStatusFn func(context.Context, model.Actor, string, model.OrderStatus) (*model.Order, error)
}

// CreateOrder delegates to the override or returns a pending order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, buyerID int64, in model.CreateOrderInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, buyerID, in)
	}
	return &model.Order{ID: "order-1", BuyerID: buyerID, Status: model.OrderStatusPending}, nil
}

// Order returns the configured order.
func (s OrderFacadeStub) Order(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, BuyerID: actor.UserID, Status: model.OrderStatusPending}, nil
}

// BuyerOrders returns the configured listing.
func (s OrderFacadeStub) BuyerOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	if s.BuyerOrdersFn != nil {
		return s.BuyerOrdersFn(ctx, actor, page)
	}
	return nil, 0, nil
}

// SellerOrders returns the configured listing.
func (s OrderFacadeStub) SellerOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	if s.SellerOrdersFn != nil {
		return s.SellerOrdersFn(ctx, actor, page)
	}
	return nil, 0, nil
}

// AllOrders returns the configured listing.
func (s OrderFacadeStub) AllOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, actor, page)
	}
	return nil, 0, nil
}

// CancelOrder delegates to the override.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
}

// DeliverOrder delegates to the override.
func (s OrderFacadeStub) DeliverOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusDelivered}, nil
}

// UpdateOrderStatus delegates to the override.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, actor, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	InitiateFn func(context.Context, model.Actor, string) (*model.Order, *model.PaymentAttempt, error)
	ConfirmFn  func(context.Context, model.Actor, string, string, string, string) (*model.Order, error)
	AttemptsFn func(context.Context, model.Actor, string) ([]model.PaymentAttempt, error)
	RefundFn   func(context.Context, model.Actor, string) error
}

// InitiatePayment delegates to the override.
func (s PaymentFacadeStub) InitiatePayment(ctx context.Context, actor model.Actor, orderID string) (*model.Order, *model.PaymentAttempt, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, actor, orderID)
	}
	order := &model.Order{ID: orderID, Status: model.OrderStatusPaymentInitiated}
	attempt := &model.PaymentAttempt{ID: "intent-1", OrderID: orderID, Status: model.PaymentAttemptCreated}
	return order, attempt, nil
}

// ConfirmPayment delegates to the override.
func (s PaymentFacadeStub) ConfirmPayment(ctx context.Context, actor model.Actor, orderID, intentID, paymentID, signature string) (*model.Order, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, actor, orderID, intentID, paymentID, signature)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPaid}, nil
}

// PaymentAttempts delegates to the override.
func (s PaymentFacadeStub) PaymentAttempts(ctx context.Context, actor model.Actor, orderID string) ([]model.PaymentAttempt, error) {
	if s.AttemptsFn != nil {
		return s.AttemptsFn(ctx, actor, orderID)
	}
	return nil, nil
}

// RefundPayment delegates to the override.
func (s PaymentFacadeStub) RefundPayment(ctx context.Context, actor model.Actor, orderID string) error {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, actor, orderID)
	}
	return nil
}

// CatalogFacadeStub provides controllable behaviour for product endpoints.
type CatalogFacadeStub struct {
	CreateProductFn func(context.Context, model.Actor, string, int64, int) (*model.Product, error)
	ProductFn       func(context.Context, string) (*model.Product, error)
	ProductsFn      func(context.Context, repository.Page) ([]model.Product, int, error)
}

// CreateProduct delegates to the override.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, actor model.Actor, name string, price int64, stock int) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, actor, name, price, stock)
	}
	return &model.Product{ID: "product-1", SellerID: actor.UserID, Name: name, Price: price, Stock: stock}, nil
}

// Product delegates to the override.
func (s CatalogFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id}, nil
}

// Products delegates to the override.
func (s CatalogFacadeStub) Products(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, page)
	}
	return nil, 0, nil
}

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	CartFn        func(context.Context, int64) ([]model.CartItem, error)
	ReplaceCartFn func(context.Context, int64, []model.CartItem) error
}

// Cart delegates to the override.
func (s CartFacadeStub) Cart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return nil, nil
}

// ReplaceCart delegates to the override.
func (s CartFacadeStub) ReplaceCart(ctx context.Context, userID int64, items []model.CartItem) error {
	if s.ReplaceCartFn != nil {
		return s.ReplaceCartFn(ctx, userID, items)
	}
	return nil
}

// WorkerFacadeStub mimics worker interactions with the commerce facade.
type WorkerFacadeStub struct {
	Batches         [][]model.Order
	ExpiredFn       func(context.Context, int) ([]model.Order, error)
	ExpireFn        func(context.Context, model.Order) error
	Expired         []model.Order
	mu              sync.Mutex
	batchesConsumed int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// ExpiredOrders returns batches from the configured queue.
func (s *WorkerFacadeStub) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.ExpiredFn != nil {
		return s.ExpiredFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchesConsumed, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ExpireOrder records the orders handed to workers.
func (s *WorkerFacadeStub) ExpireOrder(ctx context.Context, order model.Order) error {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Expired = append(s.Expired, order)
	return nil
}

// CommerceFacadeStub aggregates facade dependencies for HTTP layer tests.
type CommerceFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	CatalogFacadeStub
	CartFacadeStub
}
