package events

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel shared by every API instance.
const Channel = "auction.events"

const (
	NewOrder     = "new-order"
	Notification = "notification"
)

// Event is the frame broadcast to websocket clients.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

func NewEvent(name string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, errors.Wrapf(err, "marshal %s payload", name)
	}
	return Event{Name: name, Data: raw}, nil
}

type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	return p.client.Publish(ctx, channel, data).Err()
}
