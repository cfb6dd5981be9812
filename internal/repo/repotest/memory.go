// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/auction-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Users struct {
	mu    sync.RWMutex
	Users map[primitive.ObjectID]*model.User
	// Err, when set, is returned by every call.
	Err error
}

func NewUsers(users ...*model.User) *Users {
	r := &Users{Users: make(map[primitive.ObjectID]*model.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.Users[u.ID] = u
	}
	return r
}

func (r *Users) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.Users {
		if u.Email == user.Email {
			return model.ErrEmailTaken
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.Users[user.ID] = cloneUser(user)
	return nil
}

func (r *Users) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.Users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.Users {
		if u.Email == strings.ToLower(email) {
			return cloneUser(u), nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *Users) GetByIDs(_ context.Context, ids ...primitive.ObjectID) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.User
	for _, id := range ids {
		if u, ok := r.Users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *Users) GetByRole(_ context.Context, isAdmin bool) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.User
	for _, u := range r.Users {
		if u.IsAdmin == isAdmin {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *Users) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Users[user.ID]; !ok {
		return model.ErrNotFound
	}
	r.Users[user.ID] = cloneUser(user)
	return nil
}

func (r *Users) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Users[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.Users, id)
	return nil
}

type Products struct {
	mu       sync.RWMutex
	Products map[primitive.ObjectID]*model.Product
	Err      error
}

func NewProducts(products ...*model.Product) *Products {
	r := &Products{Products: make(map[primitive.ObjectID]*model.Product)}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.Products[p.ID] = p
	}
	return r
}

func (r *Products) Create(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	cp := *product
	r.Products[product.ID] = &cp
	return nil
}

func (r *Products) GetByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.Products[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *Products) GetAll(_ context.Context) ([]model.Product, error) {
	return r.filter(func(model.Product) bool { return true }, 0)
}

func (r *Products) GetByCategory(_ context.Context, category string, limit int64) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.Category == category }, limit)
}

func (r *Products) filter(keep func(model.Product) bool, limit int64) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.Product
	for _, p := range r.Products {
		if keep(*p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Products) Update(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Products[product.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *product
	r.Products[product.ID] = &cp
	return nil
}

func (r *Products) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Products[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.Products, id)
	return nil
}

type Orders struct {
	mu     sync.RWMutex
	Orders map[primitive.ObjectID]*model.Order
	Err    error
}

func NewOrders(orders ...*model.Order) *Orders {
	r := &Orders{Orders: make(map[primitive.ObjectID]*model.Order)}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		r.Orders[o.ID] = o
	}
	return r
}

func (r *Orders) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.Orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *Orders) GetByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	o, ok := r.Orders[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *Orders) GetAll(_ context.Context) ([]model.Order, error) {
	return r.filter(func(model.Order) bool { return true })
}

func (r *Orders) GetByOwners(_ context.Context, owners ...primitive.ObjectID) ([]model.Order, error) {
	set := make(map[primitive.ObjectID]bool, len(owners))
	for _, o := range owners {
		set[o] = true
	}
	return r.filter(func(o model.Order) bool { return set[o.Owner] })
}

func (r *Orders) filter(keep func(model.Order) bool) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []model.Order
	for _, o := range r.Orders {
		if keep(*o) {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *Orders) Update(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Orders[order.ID]; !ok {
		return model.ErrNotFound
	}
	r.Orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *Orders) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Orders[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.Orders, id)
	return nil
}

func cloneUser(u *model.User) *model.User {
	cp := *u
	cp.Cart.Items = maps.Clone(u.Cart.Items)
	cp.Notifications = slices.Clone(u.Notifications)
	cp.Orders = slices.Clone(u.Orders)
	return &cp
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Products = maps.Clone(o.Products)
	return &cp
}
