package repo

import (
	"context"

	"github.com/auction-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByIDs(ctx context.Context, ids ...primitive.ObjectID) ([]model.User, error)
	// GetByRole returns admins when isAdmin is set, customers otherwise.
	GetByRole(ctx context.Context, isAdmin bool) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
