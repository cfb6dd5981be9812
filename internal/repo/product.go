package repo

import (
	"context"

	"github.com/auction-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	GetAll(ctx context.Context) ([]model.Product, error)
	// GetByCategory returns at most limit products of the category, newest
	// first. A zero limit means no limit.
	GetByCategory(ctx context.Context, category string, limit int64) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
