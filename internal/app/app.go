package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/shopflow/ordercore/internal/config"
	"github.com/shopflow/ordercore/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewCommerceFacade,
		newHTTPServer,
		newExpiryWorker,
		newRedisClient,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *CommerceFacade
	Config *config.Config
	Logger *slog.Logger
}

func newExpiryWorker(p workerParams) *worker.ReservationExpirer {
	return worker.NewReservationExpirer(
		p.Facade,
		p.Config.ExpiryInterval,
		p.Config.ExpiryBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

// newRedisClient returns nil when rate limiting is not configured; the
// middleware degrades to a passthrough in that case.
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddress == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.ReservationExpirer
	Config     *config.Config
	Redis      *redis.Client
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting ordercore", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			if p.Redis != nil {
				_ = p.Redis.Close()
			}
			p.Logger.Info("ordercore stopped")
			return nil
		},
	})
}
