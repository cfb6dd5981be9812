package service

import (
	"context"
	"strings"
	"time"

	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users    repo.UserRepository
	orders   repo.OrderRepository
	hashCost int
}

func NewUserService(users repo.UserRepository, orders repo.OrderRepository) *UserService {
	return &UserService{users: users, orders: orders, hashCost: bcrypt.DefaultCost}
}

type SignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	log := logger.FromContext(ctx)

	req.Email = strings.TrimSpace(req.Email)
	if strings.TrimSpace(req.Name) == "" || req.Email == "" || req.Password == "" {
		return nil, invalid("name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &model.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Password:      string(hash),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		Cart:          emptyCart(),
		Notifications: []model.Notification{},
		Orders:        []primitive.ObjectID{},
		CreatedAt:     time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, model.ErrEmailTaken) {
			log.Error("mongo: failed to create user", zap.Error(err))
		}
		return nil, err
	}

	log.Info("user signed up", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		logger.FromContext(ctx).Error("mongo: failed to find user", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, oid)
}

// ListCustomers returns every non-admin user with its orders resolved.
func (s *UserService) ListCustomers(ctx context.Context) ([]model.UserWithOrders, error) {
	log := logger.FromContext(ctx)

	users, err := s.users.GetByRole(ctx, false)
	if err != nil {
		log.Error("mongo: failed to list users", zap.Error(err))
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	orders, err := s.orders.GetByOwners(ctx, ids...)
	if err != nil {
		log.Error("mongo: failed to list orders", zap.Error(err))
		return nil, err
	}

	byOwner := make(map[primitive.ObjectID][]model.Order, len(users))
	for _, o := range orders {
		byOwner[o.Owner] = append(byOwner[o.Owner], o)
	}

	out := make([]model.UserWithOrders, len(users))
	for i, u := range users {
		owned := byOwner[u.ID]
		if owned == nil {
			owned = []model.Order{}
		}
		out[i] = model.UserWithOrders{User: u, Orders: owned}
	}
	return out, nil
}

func (s *UserService) GetUserOrders(ctx context.Context, id string) ([]model.Order, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.orders.GetByOwners(ctx, user.ID)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	oid, err := parseID("user", id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, oid); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.FromContext(ctx).Error("mongo: failed to delete user", zap.String("user_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// MarkNotificationsRead flags every notification of the user as read and
// returns them.
func (s *UserService) MarkNotificationsRead(ctx context.Context, id string) ([]model.Notification, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range user.Notifications {
		user.Notifications[i].Status = model.NotificationRead
	}
	if err := s.users.Update(ctx, user); err != nil {
		logger.FromContext(ctx).Error("mongo: failed to update notifications", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	if user.Notifications == nil {
		return []model.Notification{}, nil
	}
	return user.Notifications, nil
}
