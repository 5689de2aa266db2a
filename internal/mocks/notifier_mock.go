package mocks

import (
	"context"

	"github.com/omriShneor/quickcal/internal/notify"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, confirmation *notify.Confirmation, recipient string) error {
	args := m.Called(ctx, confirmation, recipient)
	return args.Error(0)
}

func (m *MockNotifier) Name() string {
	return "mock"
}

func (m *MockNotifier) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}
