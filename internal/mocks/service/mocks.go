// Package service provides testify mocks of the domain service interfaces.
package service

import (
	"time"

	"indicators/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// TestingT is the subset of *testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t TestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t TestingT) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) IssueAccess(subject string) (*service.IssuedToken, error) {
	args := m.Called(subject)
	tok, _ := args.Get(0).(*service.IssuedToken)

	return tok, args.Error(1)
}

func (m *MockTokenService) IssueRefresh(subject string) (*service.IssuedToken, error) {
	args := m.Called(subject)
	tok, _ := args.Get(0).(*service.IssuedToken)

	return tok, args.Error(1)
}

func (m *MockTokenService) Validate(token string, expected service.TokenType) (*service.Claims, error) {
	args := m.Called(token, expected)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) RefreshTTL() time.Duration {
	d, _ := m.Called().Get(0).(time.Duration)

	return d
}
