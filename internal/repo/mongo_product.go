package repo

import (
	"context"
	"time"

	"github.com/auction-service/internal/model"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, product)
	return err
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var product model.Product
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	return findAll[model.Product](ctx, r.coll, bson.M{}, newestFirst())
}

func (r *MongoProductRepository) GetByCategory(ctx context.Context, category string, limit int64) ([]model.Product, error) {
	opts := newestFirst()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[model.Product](ctx, r.coll, bson.M{"category": category}, opts)
}

func (r *MongoProductRepository) Update(ctx context.Context, product *model.Product) error {
	res, err := r.coll.ReplaceOne(ctx, byID(product.ID), product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
