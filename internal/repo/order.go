package repo

import (
	"context"

	"github.com/auction-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	GetAll(ctx context.Context) ([]model.Order, error)
	GetByOwners(ctx context.Context, owners ...primitive.ObjectID) ([]model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
