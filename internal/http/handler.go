package http

import (
	"context"
	"net/http"

	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
)

// ImageStore removes hosted product pictures.
type ImageStore interface {
	Delete(ctx context.Context, publicID string) error
}

// HealthCheck reports whether a backing dependency answers.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Deps struct {
	Users    *service.UserService
	Products *service.ProductService
	Carts    *service.CartService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Bids     *service.BidService
	Images   ImageStore
	Realtime http.Handler
	Health   []HealthCheck
}

type Handler struct {
	users    *service.UserService
	products *service.ProductService
	carts    *service.CartService
	orders   *service.OrderService
	payments *service.PaymentService
	bids     *service.BidService
	images   ImageStore
	realtime http.Handler
	health   []HealthCheck
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		users:    d.Users,
		products: d.Products,
		carts:    d.Carts,
		orders:   d.Orders,
		payments: d.Payments,
		bids:     d.Bids,
		images:   d.Images,
		realtime: d.Realtime,
		health:   d.Health,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	users := r.Group("/users")
	users.POST("/signup", h.Signup)
	users.POST("/login", h.Login)
	users.GET("", h.GetUsers)
	users.GET("/:id", h.GetUser)
	users.DELETE("/:id", h.DeleteUser)
	users.GET("/:id/orders", h.GetUserOrders)
	users.POST("/:id/updateNotifications", h.UpdateNotifications)

	products := r.Group("/products")
	products.GET("", h.GetProducts)
	products.POST("", h.CreateProduct)
	products.GET("/:id", h.GetProduct)
	products.PATCH("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
	products.GET("/category/:category", h.GetProductsByCategory)
	products.POST("/add-to-cart", h.AddToCart)
	products.POST("/increase-cart", h.IncreaseCart)
	products.POST("/decrease-cart", h.DecreaseCart)
	products.POST("/remove-from-cart", h.RemoveFromCart)

	orders := r.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.GetOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id/mark-shipped", h.MarkShipped)
	orders.DELETE("/:id", h.DeleteOrder)

	r.DELETE("/images/:public_id", h.DeleteImage)
	r.POST("/create-payment", h.CreatePayment)
	r.POST("/api/send-bid-message", h.SendBidMessage)
	r.GET("/health", h.Health)
	if h.realtime != nil {
		r.GET("/ws", gin.WrapH(h.realtime))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrEmptyCart),
		errors.Is(err, model.ErrItemNotInCart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// orEmpty keeps list endpoints rendering [] instead of null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
