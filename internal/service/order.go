package service

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/auction-service/internal/events"
	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type OrderService struct {
	orders    repo.OrderRepository
	users     repo.UserRepository
	publisher events.Publisher
}

func NewOrderService(orders repo.OrderRepository, users repo.UserRepository, publisher events.Publisher) *OrderService {
	return &OrderService{orders: orders, users: users, publisher: publisher}
}

type CreateOrderRequest struct {
	UserID  string `json:"userId"`
	Country string `json:"country"`
	Address string `json:"address"`
}

type MarkShippedRequest struct {
	OwnerID string `json:"ownerId"`
}

// NotificationEvent is published when a user receives a notification.
type NotificationEvent struct {
	UserID       string             `json:"userId"`
	Notification model.Notification `json:"notification"`
}

// CreateOrder checks out the user's cart: the cart content becomes a new
// processing order and the cart is emptied.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	log := logger.FromContext(ctx)

	uid, err := parseID("user", req.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Address) == "" || strings.TrimSpace(req.Country) == "" {
		return nil, invalid("address and country are required")
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.Cart.Count == 0 || len(user.Cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	order := &model.Order{
		Products: maps.Clone(user.Cart.Items),
		Owner:    user.ID,
		Status:   model.OrderStatusProcessing,
		Total:    user.Cart.Total,
		Count:    user.Cart.Count,
		Date:     time.Now(),
		Address:  strings.TrimSpace(req.Address),
		Country:  strings.TrimSpace(req.Country),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		log.Error("mongo: failed to create order", zap.Error(err))
		return nil, err
	}

	user.Orders = append(user.Orders, order.ID)
	user.Cart = emptyCart()
	if err := s.users.Update(ctx, user); err != nil {
		log.Error("mongo: failed to attach order to user", zap.String("order_id", order.ID.Hex()), zap.Error(err))
		return nil, err
	}

	log.Info("order created", zap.String("order_id", order.ID.Hex()), zap.String("user_id", req.UserID))
	publish(ctx, s.publisher, events.NewOrder, order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	oid, err := parseID("order", id)
	if err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, oid)
}

// GetOrders lists every order with the owner's name and email attached.
func (s *OrderService) GetOrders(ctx context.Context) ([]model.OrderWithOwner, error) {
	log := logger.FromContext(ctx)

	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		log.Error("mongo: failed to list orders", zap.Error(err))
		return nil, err
	}

	seen := make(map[primitive.ObjectID]bool)
	var ownerIDs []primitive.ObjectID
	for _, o := range orders {
		if !seen[o.Owner] {
			seen[o.Owner] = true
			ownerIDs = append(ownerIDs, o.Owner)
		}
	}
	owners, err := s.users.GetByIDs(ctx, ownerIDs...)
	if err != nil {
		log.Error("mongo: failed to load order owners", zap.Error(err))
		return nil, err
	}
	byID := make(map[primitive.ObjectID]model.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}

	out := make([]model.OrderWithOwner, len(orders))
	for i, o := range orders {
		owner := byID[o.Owner]
		out[i] = model.OrderWithOwner{
			Order: o,
			Owner: model.OrderOwner{ID: o.Owner, Name: owner.Name, Email: owner.Email},
		}
	}
	return out, nil
}

// MarkShipped moves the order to shipped and notifies its owner.
func (s *OrderService) MarkShipped(ctx context.Context, id string, req MarkShippedRequest) (*model.Order, error) {
	log := logger.FromContext(ctx)

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != "" && req.OwnerID != order.Owner.Hex() {
		return nil, invalid("owner does not match order")
	}

	owner, err := s.users.GetByID(ctx, order.Owner)
	if err != nil {
		log.Warn("order owner unavailable", zap.String("order_id", id), zap.Error(err))
		return nil, errors.Wrap(err, "get order owner")
	}

	order.Status = model.OrderStatusShipped
	if err := s.orders.Update(ctx, order); err != nil {
		log.Error("mongo: failed to update order", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}

	notification := model.Notification{
		ID:      primitive.NewObjectID(),
		Status:  model.NotificationUnread,
		Message: fmt.Sprintf("Your order with ID %s is shipped with success", order.ID.Hex()),
		Time:    time.Now(),
	}
	owner.Notifications = append(owner.Notifications, notification)
	if err := s.users.Update(ctx, owner); err != nil {
		log.Error("mongo: failed to notify order owner", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("order shipped", zap.String("order_id", id))
	publish(ctx, s.publisher, events.Notification, NotificationEvent{
		UserID:       owner.ID.Hex(),
		Notification: notification,
	})
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	oid, err := parseID("order", id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, oid); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.FromContext(ctx).Error("mongo: failed to delete order", zap.String("order_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}
