package service

import (
	"context"

	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService edits the cart embedded in a user document. The unit price is
// supplied by the client, as the storefront displays it.
type CartService struct {
	users repo.UserRepository
}

func NewCartService(users repo.UserRepository) *CartService {
	return &CartService{users: users}
}

type CartRequest struct {
	UserID    string  `json:"userId"`
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
}

func emptyCart() model.Cart {
	return model.Cart{Items: map[string]int{}}
}

func (s *CartService) AddToCart(ctx context.Context, req CartRequest) (*model.User, error) {
	return s.edit(ctx, req, addItem)
}

func (s *CartService) IncreaseItem(ctx context.Context, req CartRequest) (*model.User, error) {
	return s.edit(ctx, req, addItem)
}

func (s *CartService) DecreaseItem(ctx context.Context, req CartRequest) (*model.User, error) {
	return s.edit(ctx, req, decreaseItem)
}

func (s *CartService) RemoveItem(ctx context.Context, req CartRequest) (*model.User, error) {
	return s.edit(ctx, req, removeItem)
}

type cartEdit func(cart *model.Cart, productID string, price decimal.Decimal) error

func (s *CartService) edit(ctx context.Context, req CartRequest, fn cartEdit) (*model.User, error) {
	uid, err := parseID("user", req.UserID)
	if err != nil {
		return nil, err
	}
	pid, err := parseID("product", req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Price < 0 {
		return nil, invalid("price must not be negative")
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.Cart.Items == nil {
		user.Cart.Items = map[string]int{}
	}

	if err := fn(&user.Cart, pid.Hex(), decimal.NewFromFloat(req.Price)); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		logger.FromContext(ctx).Error("mongo: failed to update cart", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func addItem(cart *model.Cart, productID string, price decimal.Decimal) error {
	cart.Items[productID]++
	cart.Count++
	setTotal(cart, decimal.NewFromFloat(cart.Total).Add(price))
	return nil
}

func decreaseItem(cart *model.Cart, productID string, price decimal.Decimal) error {
	qty := cart.Items[productID]
	if qty == 0 {
		return model.ErrItemNotInCart
	}
	if qty == 1 {
		delete(cart.Items, productID)
	} else {
		cart.Items[productID] = qty - 1
	}
	cart.Count--
	setTotal(cart, decimal.NewFromFloat(cart.Total).Sub(price))
	return nil
}

func removeItem(cart *model.Cart, productID string, price decimal.Decimal) error {
	qty := cart.Items[productID]
	if qty == 0 {
		return model.ErrItemNotInCart
	}
	delete(cart.Items, productID)
	cart.Count -= qty
	setTotal(cart, decimal.NewFromFloat(cart.Total).Sub(price.Mul(decimal.NewFromInt(int64(qty)))))
	return nil
}

// setTotal rounds to paise and floors at zero; an empty cart always totals
// zero.
func setTotal(cart *model.Cart, total decimal.Decimal) {
	if cart.Count <= 0 {
		cart.Count = 0
		total = decimal.Zero
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	cart.Total = total.Round(2).InexactFloat64()
}
