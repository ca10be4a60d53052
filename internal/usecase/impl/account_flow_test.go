package impl

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userhub/config"
	domainerrors "userhub/internal/domain/errors"
	infraauth "userhub/internal/infra/auth"
	"userhub/internal/infra/cache"
	"userhub/internal/infra/persistence/model"
	"userhub/internal/infra/persistence/postgres"
	"userhub/internal/usecase"
)

// newFlowServices wires the account and auth services against a real
// repository backed by in-memory sqlite, a real bcrypt hasher, and a real
// token service, so the whole chain runs without mocks.
func newFlowServices(t *testing.T) (usecase.AccountUsecase, usecase.AuthUsecase) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A fresh pooled connection would see an empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.AccountModel{}))

	cfg := &config.Config{}
	cfg.SecretKey.Access = "flow-access-secret"
	cfg.SecretKey.Refresh = "flow-refresh-secret"

	tokenService, err := infraauth.NewJWTService(cfg)
	require.NoError(t, err)

	repo := postgres.NewAccountRepository(db)
	txManager := postgres.NewTransactionManager(db)
	hasher := infraauth.NewBcryptHasher(bcrypt.MinCost)

	accountUC := NewAccountService(AccountServiceParams{
		TxManager:   txManager,
		AccountRepo: repo,
		Hasher:      hasher,
		Cache:       cache.NewAccountCache(cfg),
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})
	authUC := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		AccountRepo:  repo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return accountUC, authUC
}

func TestAccountLifecycleFlow(t *testing.T) {
	accountUC, authUC := newFlowServices(t)
	ctx := context.Background()

	account, err := accountUC.Register(ctx, &usecase.RegisterAccountInput{
		FirstName:       "Alice",
		LastName:        "Smith",
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "Sup3r-Secret",
		ConfirmPassword: "Sup3r-Secret",
	})
	require.NoError(t, err)
	require.NotZero(t, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)

	login, err := authUC.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Sup3r-Secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, "alice", login.Account.Username)

	bio := "Gopher since 2015."
	updated, err := accountUC.UpdateProfile(ctx, &usecase.UpdateProfileInput{ID: account.ID, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)

	err = accountUC.ChangePassword(ctx, &usecase.ChangePasswordInput{
		ID:              account.ID,
		CurrentPassword: "wrong-password",
		NewPassword:     "N3w-Secret!",
		ConfirmPassword: "N3w-Secret!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrWrongPassword)

	err = accountUC.ChangePassword(ctx, &usecase.ChangePasswordInput{
		ID:              account.ID,
		CurrentPassword: "Sup3r-Secret",
		NewPassword:     "N3w-Secret!",
		ConfirmPassword: "N3w-Secret!",
	})
	require.NoError(t, err)

	_, err = authUC.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Sup3r-Secret"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	relogin, err := authUC.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "N3w-Secret!"})
	require.NoError(t, err)

	refreshed, err := authUC.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: relogin.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	require.NoError(t, accountUC.Deactivate(ctx, account.ID))

	_, err = authUC.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "N3w-Secret!"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountDisabled)
}
