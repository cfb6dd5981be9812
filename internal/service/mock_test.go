package service

import (
	"context"
	"sync"

	"github.com/auction-service/internal/events"
	"github.com/stripe/stripe-go/v81"
)

type mockPublisher struct {
	published []events.Event
	err       error
	mu        sync.Mutex
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if e, ok := message.(events.Event); ok {
		m.published = append(m.published, e)
	}
	return nil
}

type mockSender struct {
	sent map[string]string
	fail map[string]error
	mu   sync.Mutex
}

func newMockSender() *mockSender {
	return &mockSender{sent: make(map[string]string), fail: make(map[string]error)}
}

func (m *mockSender) Send(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[to]; ok {
		return err
	}
	m.sent[to] = body
	return nil
}

type mockProvider struct {
	amount   int64
	currency string
	err      error
}

func (m *mockProvider) CreateIntent(ctx context.Context, amount int64, currency string) (*stripe.PaymentIntent, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.amount = amount
	m.currency = currency
	return &stripe.PaymentIntent{
		ID:           "pi_test",
		Amount:       amount,
		Currency:     stripe.Currency(currency),
		ClientSecret: "pi_test_secret",
	}, nil
}
