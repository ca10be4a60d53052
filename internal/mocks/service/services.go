// Package service provides hand-written testify mocks for the domain
// service interfaces.
package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"userhub/internal/domain/entity"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockPasswordHasher is a testify mock for service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// MockTokenService is a testify mock for service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t testingT) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) IssueAccessToken(subject string) (string, error) {
	args := m.Called(subject)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) IssueRefreshToken(subject string) (string, error) {
	args := m.Called(subject)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifyAccessToken(token string) (string, error) {
	args := m.Called(token)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifyRefreshToken(token string) (string, error) {
	args := m.Called(token)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) AccessTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

func (m *MockTokenService) RefreshTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockFileStore is a testify mock for service.FileStore.
type MockFileStore struct {
	mock.Mock
}

func NewMockFileStore(t testingT) *MockFileStore {
	m := &MockFileStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFileStore) Store(ctx context.Context, content []byte, contentType, filename, subdir string) (*entity.StoredFile, error) {
	args := m.Called(ctx, content, contentType, filename, subdir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.StoredFile), args.Error(1)
}

func (m *MockFileStore) Load(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)

	return args.Error(0)
}

func (m *MockFileStore) GetInfo(ctx context.Context, ref string) (*entity.StoredFile, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.StoredFile), args.Error(1)
}

func (m *MockFileStore) List(ctx context.Context, subdir string) ([]*entity.StoredFile, error) {
	args := m.Called(ctx, subdir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.StoredFile), args.Error(1)
}

func (m *MockFileStore) CleanupOlderThan(ctx context.Context, days int) (int, error) {
	args := m.Called(ctx, days)

	return args.Int(0), args.Error(1)
}
