package di

import (
	"context"

	"hallseat/infras/kafka"
	"hallseat/infras/otel"
	"hallseat/infras/postgres"
	"hallseat/internal/events"
	"hallseat/internal/jobs"
	"hallseat/transport/http"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App bundles the HTTP server with the background workers and the clients they share.
type App struct {
	HTTP       *http.HTTP
	Scheduler  *jobs.Scheduler
	Subscriber *events.Subscriber
	DB         *postgres.Connection
	Redis      *goRedis.Client
	Kafka      kafka.Client
	Otel       otel.Otel
}

// Run starts the workers, serves HTTP until a shutdown signal and releases every client afterwards.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())

	if err := a.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job scheduler")
	}

	a.Subscriber.Start(ctx)

	a.HTTP.OnShutdown(
		func(context.Context) { cancel() },
		a.Scheduler.Stop,
		func(context.Context) {
			if err := a.Kafka.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close kafka client")
			}
		},
		func(context.Context) {
			if err := a.Redis.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		},
		func(context.Context) { a.DB.Close() },
		func(ctx context.Context) {
			if err := a.Otel.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to shut down tracer provider")
			}
		},
	)

	a.HTTP.Serve()
}
