package service

import (
	"context"

	"github.com/auction-service/internal/events"
	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func parseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(model.ErrInvalidInput, "malformed %s id %q", kind, id)
	}
	return oid, nil
}

func invalid(msg string) error {
	return errors.Wrap(model.ErrInvalidInput, msg)
}

// publish emits a realtime event. Failures are logged and never fail the
// request that triggered them.
func publish(ctx context.Context, publisher events.Publisher, name string, payload interface{}) {
	if publisher == nil {
		return
	}
	log := logger.FromContext(ctx)

	event, err := events.NewEvent(name, payload)
	if err == nil {
		err = publisher.Publish(ctx, events.Channel, event)
	}
	if err != nil {
		log.Error("failed to publish event", zap.String("event", name), zap.Error(err))
		return
	}
	log.Info("event published", zap.String("event", name))
}
