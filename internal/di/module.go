package di

import (
	"go.uber.org/fx"

	"github.com/shopflow/ordercore/internal/adapter/gateway"
	"github.com/shopflow/ordercore/internal/app"
	"github.com/shopflow/ordercore/internal/config"
	"github.com/shopflow/ordercore/internal/events"
	"github.com/shopflow/ordercore/internal/logger"
	"github.com/shopflow/ordercore/internal/pkg/auth"
	"github.com/shopflow/ordercore/internal/server/http/handlers"
	"github.com/shopflow/ordercore/internal/server/http/router"
	"github.com/shopflow/ordercore/internal/storage/postgres"
	"github.com/shopflow/ordercore/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(f *app.CommerceFacade) handlers.CommerceFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
