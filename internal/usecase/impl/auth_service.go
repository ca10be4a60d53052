package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/domain/service"
	"userhub/internal/errors"
	"userhub/internal/usecase"
	"userhub/internal/util"

	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies credentials, enforces the lockout policy, and issues an
// access/refresh token pair on success.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	if err := validateInput(input); err != nil {
		return nil, err
	}

	account, err := srv.findLoginAccount(ctx, input.Username)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	now := time.Now()
	if !account.Active {
		srv.log(ctx).Warn("Login rejected for disabled account", slog.Uint64("accountID", account.ID))

		return nil, domainerrors.ErrAccountDisabled
	}
	if account.Locked(now) {
		srv.log(ctx).Warn("Login rejected for locked account", slog.Uint64("accountID", account.ID))

		return nil, domainerrors.ErrAccountLocked.WithDetails(
			"try again in " + util.FormatDuration(account.LockedUntil.Sub(now)))
	}

	// Password check happens outside the transaction (bcrypt is CPU-bound);
	// the outcome is applied on a freshly loaded row.
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		if err := srv.recordOutcome(ctx, account.ID, func(a *entity.Account) {
			a.RegisterFailedLogin(now)
		}); err != nil {
			srv.log(ctx).Error("Failed to record failed login", slog.Uint64("accountID", account.ID), slog.Any("error", err))
		}
		srv.log(ctx).Warn("Login failed", slog.Uint64("accountID", account.ID), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := srv.recordOutcome(ctx, account.ID, func(a *entity.Account) {
		a.RegisterSuccessfulLogin(now)
	}); err != nil {
		return nil, errors.Wrap(err, "failed to record successful login")
	}

	accessToken, refreshToken, err := srv.issueTokenPair(account.Username)
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens", slog.Uint64("accountID", account.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Login succeeded", slog.Uint64("accountID", account.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      account,
	}, nil
}

// findLoginAccount resolves the login identifier, which is a username or an
// email address. Unknown identifiers collapse into the same credential error
// so the response never reveals which accounts exist.
func (srv *authService) findLoginAccount(ctx context.Context, identifier string) (*entity.Account, error) {
	var account *entity.Account
	var findErr error

	if strings.Contains(identifier, "@") {
		account, findErr = srv.accountRepo.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		account, findErr = srv.accountRepo.FindByUsername(ctx, identifier)
	}

	if findErr != nil {
		if errors.Is(findErr, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(findErr, "failed to load account for login")
	}

	return account, nil
}

// recordOutcome reloads the account inside a transaction and applies the
// login outcome, so concurrent attempts never clobber each other's counters.
func (srv *authService) recordOutcome(ctx context.Context, id uint64, apply func(*entity.Account)) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to reload account")
		}

		apply(account)

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to persist login outcome")
		}

		return nil
	})
}

func (srv *authService) issueTokenPair(subject string) (string, string, error) {
	accessToken, err := srv.tokenService.IssueAccessToken(subject)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.tokenService.IssueRefreshToken(subject)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue refresh token")
	}

	return accessToken, refreshToken, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (srv *authService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Debug("Refreshing access token")

	if err := validateInput(input); err != nil {
		return nil, err
	}

	subject, err := srv.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh token rejected", slog.Any("error", err))

		return nil, err
	}

	account, err := srv.accountRepo.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load account for token refresh")
	}

	if !account.Active {
		return nil, domainerrors.ErrAccountDisabled
	}
	if account.Locked(time.Now()) {
		return nil, domainerrors.ErrAccountLocked
	}

	accessToken, refreshToken, err := srv.issueTokenPair(account.Username)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Token pair refreshed", slog.Uint64("accountID", account.ID))

	return &usecase.RefreshTokenOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
