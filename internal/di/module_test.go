package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/shopflow/ordercore/internal/adapter/gateway"
	"github.com/shopflow/ordercore/internal/app"
	"github.com/shopflow/ordercore/internal/config"
	"github.com/shopflow/ordercore/internal/domain/repository"
	"github.com/shopflow/ordercore/internal/events"
	"github.com/shopflow/ordercore/internal/storage/postgres"
	"github.com/shopflow/ordercore/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:       ":0",
		DatabaseURI:      "postgres://stub",
		GatewayAddress:   "http://localhost",
		GatewayKeySecret: "secret",
		GatewayTimeout:   time.Second,
		TokenSecret:      "secret",
		Currency:         "INR",
		PaymentDeadline:  time.Minute,
		ExpiryInterval:   time.Millisecond,
		ExpiryBatchSize:  1,
		WorkerPoolSize:   1,
		ShutdownTimeout:  time.Millisecond,
		RateLimitPerMin:  30,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	userRepo := test.NewUserRepositoryStub()
	orderRepo := &test.OrderRepositoryStub{}
	productRepo := &test.ProductRepositoryStub{}
	reservationRepo := &test.ReservationRepositoryStub{}
	paymentRepo := &test.PaymentRepositoryStub{}
	cartRepo := &test.CartRepositoryStub{}
	gatewayStub := &test.GatewayClientStub{}

	var facade *app.CommerceFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(userRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(repository.ReservationRepository(reservationRepo)),
			fx.Replace(repository.PaymentRepository(paymentRepo)),
			fx.Replace(repository.CartRepository(cartRepo)),
			fx.Replace(gateway.Client(gatewayStub)),
			fx.Replace(events.Publisher(&test.PublisherRecorder{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected commerce facade instance")
	}
}
