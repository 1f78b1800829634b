package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hallseat/config"
	"hallseat/infras/kafka"
	kafkaMocks "hallseat/infras/kafka/mocks"
	"hallseat/infras/otel/mocks"
	"hallseat/internal/events"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
)

func enabledConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topic = "hallseat.events"

	return cfg
}

func TestNew_StampsActor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "u-1")

	event := events.New(ctx, events.InvoicePaid, "inv-1", "PAID")

	assert.Equal(t, "u-1", event.ActorID)
	assert.Equal(t, events.InvoicePaid, event.Name)
	assert.NotEmpty(t, event.OccurredAt)
	assert.Equal(t, constant.ContextSystem, events.New(context.Background(), events.InvoiceOverdue, "inv-2", "OVERDUE").ActorID)
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("sends when enabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)
		done := make(chan struct{})

		client.EXPECT().SendMessages(gomock.Any(), "hallseat.events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				defer close(done)

				require.Len(t, messages, 1)
				assert.Equal(t, "app-1", messages[0].Key)

				return errors.New("broker down")
			})

		events.NewPublisher(enabledConfig(), client, mocks.NewOtel()).
			Publish(context.Background(), events.Event{Name: events.ApplicationStatusChanged, EntityID: "app-1"})

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("message was not published")
		}
	})

	t.Run("no-op when disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		events.NewPublisher(&config.Config{}, client, mocks.NewOtel()).
			Publish(context.Background(), events.Event{Name: events.InvoicePaid, EntityID: "inv-1"})
	})
}

func TestSubscriber_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	subscriber := events.NewSubscriber(enabledConfig(), kafkaMocks.NewMockClient(ctrl), cache, mocks.NewOtel())

	payload, err := json.Marshal(events.Event{Name: events.MaintenanceStatusChanged, EntityID: "mr-1", Status: "COMPLETED"})
	require.NoError(t, err)

	cache.EXPECT().Clear(gomock.Any(), constant.CacheKeyDashboard+constant.Asterix).Return(nil)

	subscriber.Handle(kafkaGo.Message{Value: payload})
}

func TestSubscriber_Handle_BadPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	subscriber := events.NewSubscriber(enabledConfig(), kafkaMocks.NewMockClient(ctrl), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	subscriber.Handle(kafkaGo.Message{Value: []byte("not json")})
}

func TestSubscriber_Start_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	subscriber := events.NewSubscriber(&config.Config{}, kafkaMocks.NewMockClient(ctrl), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	subscriber.Start(context.Background())
}
