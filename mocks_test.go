package ryde_test

import (
	"context"
	"sync"

	"github.com/The-CodeINN/ryde"
	"github.com/stretchr/testify/mock"
)

// MockGateway implements ryde.IdentityGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateAccount(ctx context.Context, email, password string) (ryde.AccountHandle, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(ryde.AccountHandle), args.Error(1)
}

func (m *MockGateway) RequestVerificationCode(ctx context.Context, handle ryde.AccountHandle) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

func (m *MockGateway) VerifyCode(ctx context.Context, handle ryde.AccountHandle, code string) (*ryde.VerificationResult, error) {
	args := m.Called(ctx, handle, code)
	var result *ryde.VerificationResult
	if v := args.Get(0); v != nil {
		result = v.(*ryde.VerificationResult)
	}
	return result, args.Error(1)
}

func (m *MockGateway) SignIn(ctx context.Context, identifier, password string) (*ryde.VerificationResult, error) {
	args := m.Called(ctx, identifier, password)
	var result *ryde.VerificationResult
	if v := args.Get(0); v != nil {
		result = v.(*ryde.VerificationResult)
	}
	return result, args.Error(1)
}

func (m *MockGateway) ActivateSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockSink implements ryde.ProfileSink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Persist(ctx context.Context, name, email, providerAccountID string) error {
	args := m.Called(ctx, name, email, providerAccountID)
	return args.Error(0)
}

// recordingSink captures activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []ryde.ActivityEvent
}

func (s *recordingSink) Record(ctx context.Context, event ryde.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) types() []ryde.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ryde.ActivityEventType, 0, len(s.events))
	for _, evt := range s.events {
		out = append(out, evt.EventType)
	}
	return out
}
