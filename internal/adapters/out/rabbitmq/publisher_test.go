package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

type testEvent struct {
	ID      kernel.UUID `json:"event_id"`
	OrderID kernel.UUID `json:"order_id"`
	Note    string      `json:"note"`
	At      time.Time   `json:"occurred_at"`
}

func (e testEvent) EventID() kernel.UUID     { return e.ID }
func (e testEvent) EventName() string        { return "order.tested" }
func (e testEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e testEvent) OccurredAt() time.Time    { return e.At }

func TestPublisher_Publish(t *testing.T) {
	event := testEvent{
		ID:      kernel.NewUUID(),
		OrderID: kernel.NewUUID(),
		Note:    "hello",
		At:      time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}

	t.Run("sends_envelope_with_event_name_as_routing_key", func(t *testing.T) {
		ch := new(mockChannel)
		var sent amqp.Publishing
		ch.On("PublishWithContext", mock.Anything, "fulfillment.events", "order.tested", false, false, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(5).(amqp.Publishing) }).
			Return(nil)

		err := NewPublisher(ch, "fulfillment.events", nil).Publish(context.Background(), event)

		require.NoError(t, err)
		ch.AssertExpectations(t)
		assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
		assert.Equal(t, "application/json", sent.ContentType)
		assert.Equal(t, event.ID.String(), sent.MessageId)

		var body map[string]any
		require.NoError(t, json.Unmarshal(sent.Body, &body))
		assert.Equal(t, "order.tested", body["event_name"])
		assert.Equal(t, event.OrderID.String(), body["aggregate_id"])
		payload, ok := body["payload"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "hello", payload["note"])
	})

	t.Run("failure_does_not_stop_other_events", func(t *testing.T) {
		second := event
		second.ID = kernel.NewUUID()
		ch := new(mockChannel)
		ch.On("PublishWithContext", mock.Anything, "x", "order.tested", false, false, mock.Anything).
			Return(errors.New("channel closed")).Once()
		ch.On("PublishWithContext", mock.Anything, "x", "order.tested", false, false, mock.Anything).
			Return(nil).Once()

		err := NewPublisher(ch, "x", nil).Publish(context.Background(), event, second)

		require.Error(t, err)
		assert.Contains(t, err.Error(), event.ID.String())
		assert.NotContains(t, err.Error(), second.ID.String())
		ch.AssertNumberOfCalls(t, "PublishWithContext", 2)
	})
}

func TestPublisher_Close(t *testing.T) {
	ch := new(mockChannel)
	ch.On("Close").Return(nil)

	require.NoError(t, NewPublisher(ch, "x", nil).Close())
	ch.AssertExpectations(t)
}
