package events

import (
	"context"

	"hallseat/config"
	"hallseat/infras/kafka"
	"hallseat/infras/otel"
	"hallseat/shared"
	"hallseat/shared/cache"
	"hallseat/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Subscriber listens to the domain event topic and drops the report caches of this instance
// whenever another instance changes data that feeds them.
type Subscriber struct {
	client kafka.Client
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func NewSubscriber(cfg *config.Config, client kafka.Client, cache cache.RedisCache, otel otel.Otel) *Subscriber {
	return &Subscriber{
		client: client,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

// Start consumes in the background until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) {
	if !s.cfg.Kafka.Enable {
		log.Info().Msg("Kafka disabled, event subscriber not started")

		return
	}

	go s.client.Consume(ctx, s.cfg.Kafka.ConsumerGroup, s.cfg.Kafka.Topic, s.Handle)

	log.Info().Str("topic", s.cfg.Kafka.Topic).Msg("Event subscriber started")
}

func (s *Subscriber) Handle(msg kafkaGo.Message) {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()

	event, err := kafka.Decode[Event](msg)
	if err != nil {
		scope.TraceError(err)

		return
	}

	log.Info().
		Str("event", string(event.Name)).
		Str("entity_id", event.EntityID).
		Str("status", event.Status).
		Str("actor", event.ActorID).
		Msg("domain event received")

	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyDashboard)
}
