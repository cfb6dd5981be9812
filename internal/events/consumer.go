package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Broadcaster interface {
	Broadcast(event Event)
}

// Consumer relays events published by any instance to the local websocket
// clients.
type Consumer struct {
	client      *redis.Client
	broadcaster Broadcaster
	log         *zap.Logger
}

func NewConsumer(client *redis.Client, broadcaster Broadcaster, log *zap.Logger) *Consumer {
	return &Consumer{client: client, broadcaster: broadcaster, log: log}
}

// Subscribe blocks until ctx is cancelled.
func (c *Consumer) Subscribe(ctx context.Context, channel string) error {
	sub := c.client.Subscribe(ctx, channel)
	defer sub.Close()

	// Receive blocks until redis confirms the subscription.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	c.log.Info("subscribed", zap.String("channel", channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.handle(msg)
		}
	}
}

func (c *Consumer) handle(msg *redis.Message) {
	var event Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		c.log.Warn("failed to unmarshal event", zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	if event.Name == "" {
		c.log.Warn("event without name", zap.String("channel", msg.Channel))
		return
	}
	c.log.Debug("event received", zap.String("event", event.Name))
	c.broadcaster.Broadcast(event)
}
