// Package repository provides hand-written testify mocks for the
// persistence interfaces.
package repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"userhub/internal/domain/entity"
	"userhub/internal/domain/repository"
)

// MockAccountRepository is a testify mock for repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a mock wired to the test lifecycle.
func NewMockAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uint64) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, username, excludeID)

	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, email, excludeID)

	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context, filter repository.ListFilter) (*repository.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*repository.Page), args.Error(1)
}

func (m *MockAccountRepository) AdvancedSearch(ctx context.Context, filter repository.AdvancedFilter) (*repository.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*repository.Page), args.Error(1)
}

func (m *MockAccountRepository) All(ctx context.Context) ([]*entity.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) Stats(ctx context.Context, recentSince time.Time) (*entity.AccountStats, error) {
	args := m.Called(ctx, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.AccountStats), args.Error(1)
}
