package events

import (
	"context"

	"go.uber.org/fx"

	"github.com/shopflow/ordercore/internal/config"
)

// Module provides the event publisher; a noop implementation is used when no
// Kafka brokers are configured.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
}

func newPublisher(p publisherParams) Publisher {
	if len(p.Config.KafkaBrokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}
