package mocks

import (
	"context"
	"sync"

	"github.com/example/foodyham/internal/domain/user"
)

// MockCollaborator is a mock implementation of session.Collaborator
type MockCollaborator struct {
	mu sync.Mutex

	LoginResult    user.Credentials
	LoginErr       error
	RegisterResult user.Credentials
	RegisterErr    error
	ProfileResult  user.Identity
	ProfileErr     error
	PasswordErr    error

	// For tracking calls in tests
	LoginCalls    []LoginCall
	RegisterCalls []RegisterCall
	ProfileCalls  []user.ProfilePatch
	PasswordCalls []PasswordCall
}

type LoginCall struct {
	Email    string
	Password string
}

type RegisterCall struct {
	Name     string
	Email    string
	Password string
}

type PasswordCall struct {
	Current string
	Next    string
}

func NewMockCollaborator() *MockCollaborator {
	return &MockCollaborator{}
}

func (m *MockCollaborator) Login(ctx context.Context, email, password string) (user.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls = append(m.LoginCalls, LoginCall{Email: email, Password: password})
	if m.LoginErr != nil {
		return user.Credentials{}, m.LoginErr
	}
	return m.LoginResult, nil
}

func (m *MockCollaborator) Register(ctx context.Context, name, email, password string) (user.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterCalls = append(m.RegisterCalls, RegisterCall{Name: name, Email: email, Password: password})
	if m.RegisterErr != nil {
		return user.Credentials{}, m.RegisterErr
	}
	return m.RegisterResult, nil
}

func (m *MockCollaborator) UpdateProfile(ctx context.Context, patch user.ProfilePatch) (user.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls = append(m.ProfileCalls, patch)
	if m.ProfileErr != nil {
		return user.Identity{}, m.ProfileErr
	}
	return m.ProfileResult, nil
}

func (m *MockCollaborator) ChangePassword(ctx context.Context, current, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PasswordCalls = append(m.PasswordCalls, PasswordCall{Current: current, Next: next})
	return m.PasswordErr
}

// Calls returns the total number of collaborator calls
func (m *MockCollaborator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LoginCalls) + len(m.RegisterCalls) + len(m.ProfileCalls) + len(m.PasswordCalls)
}
