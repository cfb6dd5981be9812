package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/auction-service/internal/events"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo/repotest"
	"github.com/auction-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeImages struct {
	deleted []string
	err     error
}

func (f *fakeImages) Delete(ctx context.Context, publicID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fakeProvider struct {
	err error
}

func (f *fakeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: "pi_1", Amount: amount, Currency: stripe.Currency(currency), ClientSecret: "pi_1_secret"}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, message.(events.Event))
	return nil
}

type testServer struct {
	router    *gin.Engine
	users     *repotest.Users
	products  *repotest.Products
	orders    *repotest.Orders
	images    *fakeImages
	provider  *fakeProvider
	sender    *fakeSender
	publisher *fakePublisher
	healthErr error
}

type seed func(s *testServer)

func withUsers(users ...*model.User) seed {
	return func(s *testServer) { s.users = repotest.NewUsers(users...) }
}

func withProducts(products ...*model.Product) seed {
	return func(s *testServer) { s.products = repotest.NewProducts(products...) }
}

func withOrders(orders ...*model.Order) seed {
	return func(s *testServer) { s.orders = repotest.NewOrders(orders...) }
}

func newTestServer(t *testing.T, seeds ...seed) *testServer {
	t.Helper()
	s := &testServer{
		users:     repotest.NewUsers(),
		products:  repotest.NewProducts(),
		orders:    repotest.NewOrders(),
		images:    &fakeImages{},
		provider:  &fakeProvider{},
		sender:    &fakeSender{},
		publisher: &fakePublisher{},
	}
	for _, fn := range seeds {
		fn(s)
	}
	h := NewHandler(Deps{
		Users:    service.NewUserService(s.users, s.orders),
		Products: service.NewProductService(s.products, s.users),
		Carts:    service.NewCartService(s.users),
		Orders:   service.NewOrderService(s.orders, s.users, s.publisher),
		Payments: service.NewPaymentService(s.provider, "inr"),
		Bids:     service.NewBidService(s.users, s.sender, "+91"),
		Images:   s.images,
		Health: []HealthCheck{{
			Name:  "mongo",
			Check: func(ctx context.Context) error { return s.healthErr },
		}},
	})
	s.router = gin.New()
	h.RegisterRoutes(s.router)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestSignupLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users/signup", gin.H{
		"name": "Ravi", "email": "ravi@example.com", "password": "secret", "phoneNumber": "9876543210",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	created := decode[model.User](t, w)
	assert.False(t, created.ID.IsZero())

	w = s.do(t, http.MethodPost, "/users/signup", gin.H{
		"name": "Ravi", "email": "ravi@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", decode[map[string]string](t, w)["error"])

	w = s.do(t, http.MethodPost, "/users/login", gin.H{"email": "ravi@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[model.User](t, w).ID)

	w = s.do(t, http.MethodPost, "/users/login", gin.H{"email": "ravi@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid email or password", decode[map[string]string](t, w)["error"])
}

func TestUserRoutes(t *testing.T) {
	user := &model.User{Name: "Buyer", Email: "buyer@example.com"}
	admin := &model.User{Name: "Admin", Email: "admin@example.com", IsAdmin: true}
	s := newTestServer(t, withUsers(user, admin))

	w := s.do(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]interface{}](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Buyer", list[0]["name"])
	assert.Equal(t, []interface{}{}, list[0]["orders"])

	w = s.do(t, http.MethodGet, "/users/"+user.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/users/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/users/not-hex", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/users/"+user.ID.Hex()+"/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(t, http.MethodPost, "/users/"+user.ID.Hex()+"/updateNotifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(t, http.MethodDelete, "/users/"+user.ID.Hex(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/users/"+user.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(t, http.MethodPost, "/products", gin.H{
		"name": "Clock", "description": "brass", "price": 1200, "category": "antiques",
		"images": []gin.H{{"url": "https://img/1.jpg", "public_id": "img1"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.Product](t, w)
	assert.Equal(t, "img1", created.Pictures[0].PublicID)

	w = s.do(t, http.MethodPost, "/products", gin.H{"name": "Free", "price": 0, "category": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/products/"+created.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, details, "product")
	assert.JSONEq(t, "[]", string(details["similar"]))

	w = s.do(t, http.MethodPatch, "/products/"+created.ID.Hex(), gin.H{"name": "Clock", "price": 999, "category": "antiques"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 999.0, decode[model.Product](t, w).Price)

	w = s.do(t, http.MethodGet, "/products/category/antiques", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Product](t, w), 1)

	w = s.do(t, http.MethodGet, "/products/category/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(t, http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProductRoute(t *testing.T) {
	admin := &model.User{Email: "admin@example.com", IsAdmin: true}
	buyer := &model.User{Email: "buyer@example.com"}
	p := &model.Product{Name: "x", Price: 1, Category: "art", CreatedAt: time.Now()}
	s := newTestServer(t, withUsers(admin, buyer), withProducts(p))

	w := s.do(t, http.MethodDelete, "/products/"+p.ID.Hex(), gin.H{"user_id": buyer.ID.Hex()})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/products/"+p.ID.Hex(), gin.H{"user_id": admin.ID.Hex()})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.products.Products)
}

func TestCartAndCheckout(t *testing.T) {
	user := &model.User{Email: "buyer@example.com", Cart: model.Cart{Items: map[string]int{}}}
	s := newTestServer(t, withUsers(user))
	productID := primitive.NewObjectID().Hex()
	body := gin.H{"userId": user.ID.Hex(), "productId": productID, "price": 250}

	w := s.do(t, http.MethodPost, "/products/add-to-cart", body)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/products/increase-cart", body)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[model.User](t, w).Cart
	assert.Equal(t, 2, cart.Count)
	assert.Equal(t, 500.0, cart.Total)

	w = s.do(t, http.MethodPost, "/products/decrease-cart", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[model.User](t, w).Cart.Count)

	w = s.do(t, http.MethodPost, "/orders", gin.H{"userId": user.ID.Hex(), "country": "India", "address": "1 Park Street"})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode[model.Order](t, w)
	assert.Equal(t, map[string]int{productID: 1}, order.Products)
	assert.Equal(t, model.OrderStatusProcessing, order.Status)
	require.Len(t, s.publisher.events, 1)
	assert.Equal(t, events.NewOrder, s.publisher.events[0].Name)

	w = s.do(t, http.MethodPost, "/orders", gin.H{"userId": user.ID.Hex(), "country": "India", "address": "1 Park Street"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/products/remove-from-cart", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderRoutes(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com"}
	order := &model.Order{Owner: user.ID, Status: model.OrderStatusProcessing, Date: time.Now()}
	s := newTestServer(t, withUsers(user), withOrders(order))

	w := s.do(t, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]model.OrderWithOwner](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Asha", list[0].Owner.Name)

	w = s.do(t, http.MethodGet, "/orders/"+order.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPatch, "/orders/"+order.ID.Hex()+"/mark-shipped", gin.H{"ownerId": user.ID.Hex()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.OrderStatusShipped, decode[model.Order](t, w).Status)
	assert.Len(t, s.users.Users[user.ID].Notifications, 1)
	require.Len(t, s.publisher.events, 1)
	assert.Equal(t, events.Notification, s.publisher.events[0].Name)

	w = s.do(t, http.MethodDelete, "/orders/"+order.ID.Hex(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/orders/"+order.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreFailureIs500(t *testing.T) {
	s := newTestServer(t)
	s.orders.Err = assert.AnError

	w := s.do(t, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteImage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/images/abc123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"abc123"}, s.images.deleted)

	s.images.err = assert.AnError
	w = s.do(t, http.MethodDelete, "/images/abc123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, assert.AnError.Error(), decode[map[string]string](t, w)["error"])
}

func TestCreatePayment(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/create-payment", gin.H{"amount": 50000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pi_1_secret", decode[map[string]interface{}](t, w)["client_secret"])

	w = s.do(t, http.MethodPost, "/create-payment", gin.H{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.provider.err = &stripe.Error{Msg: "Amount must be at least ₹0.50 inr"}
	w = s.do(t, http.MethodPost, "/create-payment", gin.H{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Amount must be at least ₹0.50 inr", decode[string](t, w))
}

func TestSendBidMessage(t *testing.T) {
	s := newTestServer(t, withUsers(
		&model.User{Email: "a1@example.com", IsAdmin: true, PhoneNumber: "9000000001"},
		&model.User{Email: "a2@example.com", IsAdmin: true, PhoneNumber: "9000000002"},
	))
	bid := gin.H{"name": "Meera", "phoneNumber": "9999999999", "email": "m@example.com", "bid": "1500"}

	w := s.do(t, http.MethodPost, "/api/send-bid-message", bid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Message sent successfully to admins", decode[map[string]string](t, w)["message"])
	assert.ElementsMatch(t, []string{"+919000000001", "+919000000002"}, s.sender.sent)

	s.sender.err = assert.AnError
	w = s.do(t, http.MethodPost, "/api/send-bid-message", bid)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error sending message to admins", decode[map[string]string](t, w)["error"])
}

func TestSendBidMessageNumericBid(t *testing.T) {
	s := newTestServer(t, withUsers(
		&model.User{Email: "a1@example.com", IsAdmin: true, PhoneNumber: "9000000001"},
		&model.User{Email: "a2@example.com", IsAdmin: true, PhoneNumber: "9000000002"},
	))

	w := s.do(t, http.MethodPost, "/api/send-bid-message", gin.H{
		"name": "Meera", "phoneNumber": "9999999999", "email": "m@example.com", "bid": 500,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.ElementsMatch(t, []string{"+919000000001", "+919000000002"}, s.sender.sent)
}

func TestMarkShippedMissingOwner(t *testing.T) {
	order := &model.Order{Owner: primitive.NewObjectID(), Status: model.OrderStatusProcessing, Date: time.Now()}
	s := newTestServer(t, withOrders(order))

	w := s.do(t, http.MethodPatch, "/orders/"+order.ID.Hex()+"/mark-shipped", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/orders/"+order.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.OrderStatusProcessing, decode[model.Order](t, w).Status)
	assert.Empty(t, s.publisher.events)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.healthErr = assert.AnError
	w = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrForbidden, http.StatusForbidden},
		{model.ErrEmailTaken, http.StatusBadRequest},
		{model.ErrEmptyCart, http.StatusBadRequest},
		{model.ErrItemNotInCart, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
