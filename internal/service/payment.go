package service

import (
	"context"

	"github.com/auction-service/internal/logger"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*stripe.PaymentIntent, error)
}

type PaymentService struct {
	provider PaymentProvider
	currency string
}

func NewPaymentService(provider PaymentProvider, currency string) *PaymentService {
	return &PaymentService{provider: provider, currency: currency}
}

// CreatePaymentRequest carries the amount in the smallest currency unit.
type CreatePaymentRequest struct {
	Amount int64 `json:"amount"`
}

func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*stripe.PaymentIntent, error) {
	log := logger.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, invalid("amount must be greater than 0")
	}

	pi, err := s.provider.CreateIntent(ctx, req.Amount, s.currency)
	if err != nil {
		log.Warn("payment intent rejected", zap.Int64("amount", req.Amount), zap.Error(err))
		return nil, err
	}

	log.Info("payment intent created", zap.String("payment_intent", pi.ID), zap.Int64("amount", req.Amount))
	return pi, nil
}
