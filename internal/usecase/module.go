package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/shopflow/ordercore/internal/adapter/gateway"
	"github.com/shopflow/ordercore/internal/config"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/events"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCatalogUseCase,
	NewCartUseCase,
	newOrderUseCase,
	newPaymentUseCase,
)

// defaultPricing mirrors the storefront's flat-rate policy: 18% tax,
// 49.00 shipping waived above 1000.00 (minor units).
var defaultPricing = model.PricingPolicy{
	TaxRateBasisPoints: 1800,
	FlatShipping:       4900,
	FreeShippingOver:   100000,
}

type orderParams struct {
	fx.In

	Orders       repository.OrderRepository
	Products     repository.ProductRepository
	Reservations repository.ReservationRepository
	Carts        repository.CartRepository
	Publisher    events.Publisher
	Logger       *slog.Logger
	Config       *config.Config
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Products, p.Reservations, p.Carts, p.Publisher, p.Logger, defaultPricing, p.Config.PaymentDeadline)
}

type paymentParams struct {
	fx.In

	Orders       repository.OrderRepository
	Payments     repository.PaymentRepository
	Reservations repository.ReservationRepository
	Carts        repository.CartRepository
	Gateway      gateway.Client
	Verifier     *gateway.Verifier
	Publisher    events.Publisher
	Logger       *slog.Logger
	Config       *config.Config
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Payments, p.Reservations, p.Carts, p.Gateway, p.Verifier, p.Publisher, p.Logger, p.Config.Currency)
}
