package app

import (
	"context"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/usecase"
)

// CommerceFacade aggregates the use cases behind a single surface consumed
// by HTTP handlers and the expiry worker.
type CommerceFacade struct {
	auth    *usecase.AuthUseCase
	orders  *usecase.OrderUseCase
	payment *usecase.PaymentUseCase
	catalog *usecase.CatalogUseCase
	cart    *usecase.CartUseCase
}

func NewCommerceFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	payment *usecase.PaymentUseCase,
	catalog *usecase.CatalogUseCase,
	cart *usecase.CartUseCase,
) *CommerceFacade {
	return &CommerceFacade{auth: auth, orders: orders, payment: payment, catalog: catalog, cart: cart}
}

func (f *CommerceFacade) Register(ctx context.Context, login, password string, role model.Role) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, role)
	return token, err
}

func (f *CommerceFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *CommerceFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

func (f *CommerceFacade) CreateOrder(ctx context.Context, buyerID int64, in model.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, buyerID, in)
}

func (f *CommerceFacade) Order(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	return f.orders.View(ctx, actor, orderID)
}

func (f *CommerceFacade) BuyerOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	return f.orders.ListForBuyer(ctx, actor, page)
}

func (f *CommerceFacade) SellerOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	return f.orders.ListForSeller(ctx, actor, page)
}

func (f *CommerceFacade) AllOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error) {
	return f.orders.ListAll(ctx, actor, page)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	return f.orders.Cancel(ctx, actor, orderID)
}

func (f *CommerceFacade) DeliverOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	return f.orders.Deliver(ctx, actor, orderID)
}

func (f *CommerceFacade) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, actor, orderID, status)
}

func (f *CommerceFacade) InitiatePayment(ctx context.Context, actor model.Actor, orderID string) (*model.Order, *model.PaymentAttempt, error) {
	return f.payment.Initiate(ctx, actor, orderID)
}

func (f *CommerceFacade) ConfirmPayment(ctx context.Context, actor model.Actor, orderID, intentID, paymentID, signature string) (*model.Order, error) {
	return f.payment.Confirm(ctx, actor, orderID, intentID, paymentID, signature)
}

func (f *CommerceFacade) PaymentAttempts(ctx context.Context, actor model.Actor, orderID string) ([]model.PaymentAttempt, error) {
	return f.payment.Attempts(ctx, actor, orderID)
}

func (f *CommerceFacade) RefundPayment(ctx context.Context, actor model.Actor, orderID string) error {
	return f.payment.Refund(ctx, actor, orderID)
}

func (f *CommerceFacade) CreateProduct(ctx context.Context, actor model.Actor, name string, price int64, stock int) (*model.Product, error) {
	return f.catalog.CreateProduct(ctx, actor, name, price, stock)
}

func (f *CommerceFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.catalog.GetProduct(ctx, id)
}

func (f *CommerceFacade) Products(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	return f.catalog.ListProducts(ctx, page)
}

func (f *CommerceFacade) Cart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return f.cart.Get(ctx, userID)
}

func (f *CommerceFacade) ReplaceCart(ctx context.Context, userID int64, items []model.CartItem) error {
	return f.cart.Replace(ctx, userID, items)
}

func (f *CommerceFacade) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.ExpiredOrders(ctx, limit)
}

func (f *CommerceFacade) ExpireOrder(ctx context.Context, order model.Order) error {
	return f.orders.Expire(ctx, order)
}
