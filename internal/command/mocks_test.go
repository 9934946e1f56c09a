package command

import (
	"sync"

	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/notify"
)

// MockSender is a mock implementation of notify.Sender for testing.
// It records every request and returns a configurable error.
type MockSender struct {
	mu sync.Mutex

	// Configuration
	SendError error
	available bool

	// Call tracking
	Requests    []notify.Request
	LastRequest notify.Request
}

// NewMockSender creates a mock sender that accepts every request
func NewMockSender() *MockSender {
	return &MockSender{
		available: true,
		Requests:  make([]notify.Request, 0),
	}
}

// WithSendError configures the mock to fail every Send with err
func (m *MockSender) WithSendError(err error) *MockSender {
	m.SendError = err
	return m
}

// Send records the request and returns the configured error
func (m *MockSender) Send(req notify.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	m.LastRequest = req
	return m.SendError
}

// Name returns "mock"
func (m *MockSender) Name() string {
	return "mock"
}

// Available returns the configured availability
func (m *MockSender) Available() bool {
	return m.available
}

// SendCount returns how many requests were submitted
func (m *MockSender) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
