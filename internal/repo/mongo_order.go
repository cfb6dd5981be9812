package repo

import (
	"context"

	"github.com/auction-service/internal/model"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOrderRepository struct {
	coll *mongo.Collection
}

func NewMongoOrderRepository(coll *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{coll: coll}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, order)
	return err
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	return findAll[model.Order](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (r *MongoOrderRepository) GetByOwners(ctx context.Context, owners ...primitive.ObjectID) ([]model.Order, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	return findAll[model.Order](ctx, r.coll, bson.M{"owner": bson.M{"$in": owners}}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (r *MongoOrderRepository) Update(ctx context.Context, order *model.Order) error {
	res, err := r.coll.ReplaceOne(ctx, byID(order.ID), order)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
