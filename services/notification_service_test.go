package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharunramasamy/quickpickapp/models"
)

type fakeChannelPublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakeChannelPublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	}
	return cmd
}

type fakeEventPublisher struct {
	key     []byte
	value   []byte
	err     error
	invoked bool
}

func (f *fakeEventPublisher) Publish(_ context.Context, key, value []byte) error {
	f.invoked = true
	f.key = key
	f.value = value
	return f.err
}

func TestOrderStatusChangedPublishesToBothSinks(t *testing.T) {
	channel := &fakeChannelPublisher{}
	events := &fakeEventPublisher{}
	svc := NewNotificationService(channel, events, "orderhub")
	orderID := uuid.NewString()

	svc.OrderStatusChanged(context.Background(), orderID, models.StatusPacked)

	assert.Equal(t, "orderhub", channel.channel)
	require.True(t, events.invoked)
	// The stream key is the order id so all events for one order land on
	// the same partition.
	assert.Equal(t, []byte(orderID), events.key)

	var event OrderStatusEvent
	require.NoError(t, json.Unmarshal(events.value, &event))
	assert.Equal(t, EventOrderStatusChanged, event.EventType)
	assert.Equal(t, orderID, event.OrderID)
	assert.Equal(t, string(models.StatusPacked), event.Status)
	assert.NotEmpty(t, event.EventID)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestOrderStatusChangedSwallowsPublishFailures(t *testing.T) {
	channel := &fakeChannelPublisher{err: errors.New("redis down")}
	events := &fakeEventPublisher{err: errors.New("broker down")}
	svc := NewNotificationService(channel, events, "orderhub")

	// Must not panic or propagate; the order transaction already committed.
	svc.OrderStatusChanged(context.Background(), uuid.NewString(), models.StatusDelivered)
	assert.True(t, events.invoked)
}

func TestOrderStatusChangedNilPublishers(t *testing.T) {
	svc := NewNotificationService(nil, nil, "orderhub")
	svc.OrderStatusChanged(context.Background(), uuid.NewString(), models.StatusPlaced)
}
