package http

import (
	"context"
	"net/http"

	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/service"
	"github.com/gin-gonic/gin"
)

type deleteProductRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.products.GetProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(products))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *Handler) GetProduct(c *gin.Context) {
	details, err := h.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	var req deleteProductRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetProductsByCategory(c *gin.Context) {
	products, err := h.products.GetByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(products))
}

func (h *Handler) AddToCart(c *gin.Context) {
	h.editCart(c, h.carts.AddToCart)
}

func (h *Handler) IncreaseCart(c *gin.Context) {
	h.editCart(c, h.carts.IncreaseItem)
}

func (h *Handler) DecreaseCart(c *gin.Context) {
	h.editCart(c, h.carts.DecreaseItem)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.editCart(c, h.carts.RemoveItem)
}

type cartOp func(ctx context.Context, req service.CartRequest) (*model.User, error)

func (h *Handler) editCart(c *gin.Context, op cartOp) {
	var req service.CartRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := op(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
