package http

import (
	"net/http"

	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/payment"
	"github.com/auction-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

func (h *Handler) DeleteImage(c *gin.Context) {
	publicID := c.Param("public_id")

	if err := h.images.Delete(c.Request.Context(), publicID); err != nil {
		logger.FromContext(c.Request.Context()).Warn("failed to delete image", zap.String("public_id", publicID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_id": publicID})
}

// CreatePayment answers vendor failures with the bare message string, which
// the checkout form displays as is.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	pi, err := h.payments.CreatePayment(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, payment.ErrorMessage(err))
		return
	}

	c.JSON(http.StatusOK, pi)
}

func (h *Handler) SendBidMessage(c *gin.Context) {
	var bid model.Bid
	if !bindJSON(c, &bid) {
		return
	}

	if _, err := h.bids.SendBid(c.Request.Context(), bid); err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending message to admins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully to admins"})
}
