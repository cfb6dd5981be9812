package service

import (
	"context"
	"strings"

	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// BidService relays bids to every admin by SMS. Bids are not stored.
type BidService struct {
	users         repo.UserRepository
	sender        SMSSender
	countryPrefix string
}

func NewBidService(users repo.UserRepository, sender SMSSender, countryPrefix string) *BidService {
	return &BidService{users: users, sender: sender, countryPrefix: countryPrefix}
}

// SendBid texts the bid to all admins concurrently and returns how many
// messages were sent. The first failed send fails the whole batch.
func (s *BidService) SendBid(ctx context.Context, bid model.Bid) (int, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(string(bid.Bid)) == "" {
		return 0, invalid("bid is required")
	}

	admins, err := s.users.GetByRole(ctx, true)
	if err != nil {
		log.Error("mongo: failed to list admins", zap.Error(err))
		return 0, err
	}

	body := bid.Message()
	g, gctx := errgroup.WithContext(ctx)
	sent := 0
	for _, admin := range admins {
		if admin.PhoneNumber == "" {
			log.Warn("admin has no phone number", zap.String("user_id", admin.ID.Hex()))
			continue
		}
		to := s.countryPrefix + admin.PhoneNumber
		sent++
		g.Go(func() error {
			return s.sender.Send(gctx, to, body)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to send bid message", zap.Error(err))
		return 0, errors.Wrap(err, "send bid message")
	}

	log.Info("bid message sent to admins", zap.Int("admins", sent))
	return sent, nil
}
