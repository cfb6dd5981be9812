package service

import (
	"context"
	"testing"
	"time"

	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(users *repotest.Users, orders *repotest.Orders) *UserService {
	svc := NewUserService(users, orders)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestSignupAndLogin(t *testing.T) {
	users := repotest.NewUsers()
	svc := newTestUserService(users, repotest.NewOrders())
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{
		Name:        "Ravi",
		Email:       "Ravi@Example.com",
		Password:    "secret",
		PhoneNumber: "9876543210",
	})
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.NotEqual(t, "secret", user.Password)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, 0, user.Cart.Count)
	assert.NotNil(t, user.Cart.Items)

	got, err := svc.Login(ctx, LoginRequest{Email: "ravi@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "ravi@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestUserService(repotest.NewUsers(), repotest.NewOrders())
	req := SignupRequest{Name: "Ravi", Email: "ravi@example.com", Password: "secret"}

	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestUserService(repotest.NewUsers(), repotest.NewOrders())

	for _, req := range []SignupRequest{
		{Email: "a@example.com", Password: "x"},
		{Name: "A", Password: "x"},
		{Name: "A", Email: "a@example.com"},
	} {
		_, err := svc.Signup(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	}
}

func TestListCustomers(t *testing.T) {
	admin := &model.User{Name: "Admin", Email: "admin@example.com", IsAdmin: true}
	buyer := &model.User{Name: "Buyer", Email: "buyer@example.com"}
	idle := &model.User{Name: "Idle", Email: "idle@example.com"}
	users := repotest.NewUsers(admin, buyer, idle)
	orders := repotest.NewOrders(
		&model.Order{Owner: buyer.ID, Date: time.Now()},
		&model.Order{Owner: admin.ID, Date: time.Now()},
	)
	svc := newTestUserService(users, orders)

	got, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	byName := map[string]model.UserWithOrders{}
	for _, u := range got {
		assert.False(t, u.IsAdmin)
		byName[u.Name] = u
	}
	assert.Len(t, byName["Buyer"].Orders, 1)
	assert.NotNil(t, byName["Idle"].Orders)
	assert.Empty(t, byName["Idle"].Orders)
}

func TestGetUserOrders(t *testing.T) {
	buyer := &model.User{ID: primitive.NewObjectID(), Email: "buyer@example.com"}
	other := primitive.NewObjectID()
	orders := repotest.NewOrders(
		&model.Order{Owner: buyer.ID, Date: time.Now()},
		&model.Order{Owner: other, Date: time.Now()},
	)
	users := repotest.NewUsers(buyer)
	svc := newTestUserService(users, orders)

	got, err := svc.GetUserOrders(context.Background(), buyer.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, buyer.ID, got[0].Owner)

	_, err = svc.GetUserOrders(context.Background(), other.Hex())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	user := &model.User{Email: "gone@example.com"}
	users := repotest.NewUsers(user)
	svc := newTestUserService(users, repotest.NewOrders())

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID.Hex()))
	assert.Empty(t, users.Users)

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), user.ID.Hex()), model.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "xyz"), model.ErrInvalidInput)
}

func TestMarkNotificationsRead(t *testing.T) {
	user := &model.User{
		Email: "n@example.com",
		Notifications: []model.Notification{
			{ID: primitive.NewObjectID(), Status: model.NotificationUnread, Message: "one"},
			{ID: primitive.NewObjectID(), Status: model.NotificationRead, Message: "two"},
		},
	}
	users := repotest.NewUsers(user)
	svc := newTestUserService(users, repotest.NewOrders())

	got, err := svc.MarkNotificationsRead(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, n := range users.Users[user.ID].Notifications {
		assert.Equal(t, model.NotificationRead, n.Status)
	}
}

func TestMarkNotificationsReadEmpty(t *testing.T) {
	user := &model.User{Email: "quiet@example.com"}
	svc := newTestUserService(repotest.NewUsers(user), repotest.NewOrders())

	got, err := svc.MarkNotificationsRead(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
