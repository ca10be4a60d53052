package impl

import (
	"io"
	"log/slog"
	"testing"

	"userhub/config"
	"userhub/internal/infra/cache"
	mockRepo "userhub/internal/mocks/repository"
	mockSvc "userhub/internal/mocks/service"
	"userhub/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service   usecase.AccountUsecase
	repo      *mockRepo.MockAccountRepository
	hasher    *mockSvc.MockPasswordHasher
	fileStore *mockSvc.MockFileStore
	cache     *cache.AccountCache
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	repo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	fileStore := mockSvc.NewMockFileStore(t)
	accountCache := cache.NewAccountCache(&config.Config{})

	service := NewAccountService(AccountServiceParams{
		TxManager:   mockRepo.NewFakeTransactionManager(repo),
		AccountRepo: repo,
		Hasher:      hasher,
		FileStore:   fileStore,
		Cache:       accountCache,
		Config:      &config.Config{},
		Logger:      newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:   service,
		repo:      repo,
		hasher:    hasher,
		fileStore: fileStore,
		cache:     accountCache,
	}
}

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	repo         *mockRepo.MockAccountRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	repo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewAuthService(AuthServiceParams{
		TxManager:    mockRepo.NewFakeTransactionManager(repo),
		AccountRepo:  repo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      service,
		repo:         repo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}
