package mailer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// MockSender records messages instead of sending them. Addresses listed in
// Failures fail with the mapped error.
type MockSender struct {
	mu       sync.Mutex
	sent     []Message
	seq      atomic.Int64
	Failures map[string]error
	log      *zap.Logger
}

// NewMockSender creates a new MockSender
func NewMockSender(log *zap.Logger) *MockSender {
	return &MockSender{Failures: map[string]error{}, log: log}
}

// Send simulates a delivery
func (m *MockSender) Send(ctx context.Context, msg *Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	failure := m.Failures[msg.To]
	if failure == nil {
		m.sent = append(m.sent, *msg)
	}
	m.mu.Unlock()

	if failure != nil {
		return "", failure
	}

	id := fmt.Sprintf("mock-%d", m.seq.Add(1))
	m.log.Info("simulated email send", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.String("messageId", id))
	return id, nil
}

// Sent returns a copy of every delivered message
func (m *MockSender) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
