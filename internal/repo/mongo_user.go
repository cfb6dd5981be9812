package repo

import (
	"context"
	"strings"

	"github.com/auction-service/internal/model"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)

	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrEmailTaken
	}
	return err
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, byID(id))
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids ...primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[model.User](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoUserRepository) GetByRole(ctx context.Context, isAdmin bool) ([]model.User, error) {
	return findAll[model.User](ctx, r.coll, bson.M{"isAdmin": isAdmin})
}

func (r *MongoUserRepository) Update(ctx context.Context, user *model.User) error {
	res, err := r.coll.ReplaceOne(ctx, byID(user.ID), user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
