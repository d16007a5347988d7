package handlers

import (
	"context"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (model.Actor, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, buyerID int64, in model.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	BuyerOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error)
	SellerOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error)
	AllOrders(ctx context.Context, actor model.Actor, page repository.Page) ([]model.Order, int, error)
	CancelOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	DeliverOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID string, status model.OrderStatus) (*model.Order, error)
}

// PaymentFacade provides gateway payment operations.
type PaymentFacade interface {
	InitiatePayment(ctx context.Context, actor model.Actor, orderID string) (*model.Order, *model.PaymentAttempt, error)
	ConfirmPayment(ctx context.Context, actor model.Actor, orderID, intentID, paymentID, signature string) (*model.Order, error)
	PaymentAttempts(ctx context.Context, actor model.Actor, orderID string) ([]model.PaymentAttempt, error)
	RefundPayment(ctx context.Context, actor model.Actor, orderID string) error
}

// CatalogFacade exposes product catalog operations.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, actor model.Actor, name string, price int64, stock int) (*model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	Products(ctx context.Context, page repository.Page) ([]model.Product, int, error)
}

// CartFacade exposes the saved cart of a buyer.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) ([]model.CartItem, error)
	ReplaceCart(ctx context.Context, userID int64, items []model.CartItem) error
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
	CatalogFacade
	CartFacade
}
