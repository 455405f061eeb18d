package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tharunramasamy/quickpickapp/logger"
	"github.com/tharunramasamy/quickpickapp/models"
)

// ChannelPublisher is the slice of the redis client used for fan-out.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// EventPublisher is the keyed event-stream producer.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// OrderStatusEvent is the payload published on every lifecycle transition.
type OrderStatusEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
}

const EventOrderStatusChanged = "order.status.changed"

// NotificationService fans order-status changes out to realtime subscribers
// (redis pub/sub) and the event stream (kafka). Both are best-effort: the
// triggering transaction has already committed, so failures are logged and
// swallowed.
type NotificationService struct {
	channel ChannelPublisher
	events  EventPublisher
	hub     string
}

func NewNotificationService(channel ChannelPublisher, events EventPublisher, hub string) *NotificationService {
	return &NotificationService{channel: channel, events: events, hub: hub}
}

func (n *NotificationService) OrderStatusChanged(ctx context.Context, orderID string, status models.OrderStatus) {
	event := OrderStatusEvent{
		EventID:    uuid.NewString(),
		EventType:  EventOrderStatusChanged,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		Status:     string(status),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("marshal order status event", zap.Error(err))
		return
	}

	if n.channel != nil {
		if err := n.channel.Publish(ctx, n.hub, payload).Err(); err != nil {
			logger.Log.Warn("realtime publish failed",
				zap.String("order_id", orderID), zap.Error(err))
		}
	}
	if n.events != nil {
		if err := n.events.Publish(ctx, []byte(orderID), payload); err != nil {
			logger.Log.Warn("event stream publish failed",
				zap.String("order_id", orderID), zap.Error(err))
		}
	}
}
