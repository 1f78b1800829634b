package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"

	"hallseat/config"
	"hallseat/infras/kafka"
	"hallseat/infras/otel"
	"hallseat/shared/constant"
	"hallseat/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Name string

const (
	ApplicationStatusChanged Name = "application.status_changed"
	MaintenanceStatusChanged Name = "maintenance.status_changed"
	InvoicePaid              Name = "invoice.paid"
	InvoiceOverdue           Name = "invoice.overdue"
)

type Event struct {
	Name       Name   `json:"name"`
	EntityID   string `json:"entity_id"`
	Status     string `json:"status,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// New stamps an event with the current time and the caller found in ctx, if any.
func New(ctx context.Context, name Name, entityID, status string) Event {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = constant.ContextSystem
	}

	return Event{
		Name:       name,
		EntityID:   entityID,
		Status:     status,
		ActorID:    actor,
		OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
	}
}

// Publisher emits domain events. Publishing never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, events ...Event) {
	if !p.cfg.Kafka.Enable || len(events) == 0 {
		return
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{Key: event.EntityID, Value: event}
	}

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		if err := p.client.SendMessages(c, p.cfg.Kafka.Topic, messages...); err != nil {
			scope.TraceError(err)
			log.Warn().Err(err).Int("count", len(messages)).Msg("failed to publish domain events")
		}
	}()
}
