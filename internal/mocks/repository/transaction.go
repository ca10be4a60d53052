package repository

import (
	"context"

	"userhub/internal/domain/repository"
)

// FakeTransactionManager runs the callback immediately against a fixed
// factory, standing in for a real transaction in tests.
type FakeTransactionManager struct {
	Factory repository.RepositoryFactory
}

func (f *FakeTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.Factory)
}

// FakeRepositoryFactory hands out a fixed account repository.
type FakeRepositoryFactory struct {
	Repo repository.AccountRepository
}

func (f *FakeRepositoryFactory) AccountRepo() repository.AccountRepository {
	return f.Repo
}

// NewFakeTransactionManager wires a pass-through transaction manager around
// the given account repository.
func NewFakeTransactionManager(repo repository.AccountRepository) *FakeTransactionManager {
	return &FakeTransactionManager{Factory: &FakeRepositoryFactory{Repo: repo}}
}
