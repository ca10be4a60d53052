package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"userhub/config"
	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/domain/service"
	"userhub/internal/errors"
	"userhub/internal/infra/cache"
	"userhub/internal/usecase"

	"go.uber.org/fx"
)

// avatarSubdir is the storage subdirectory holding avatar uploads.
const avatarSubdir = "avatars"

// recentSignupWindow bounds the trailing registration window of the stats.
const recentSignupWindow = 30 * 24 * time.Hour

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	fileStore   service.FileStore
	cache       *cache.AccountCache
	policy      service.PasswordPolicy
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	FileStore   service.FileStore
	Cache       *cache.AccountCache
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	policy := service.DefaultPasswordPolicy()
	if params.Config != nil && params.Config.PasswordPolicy != nil {
		p := params.Config.PasswordPolicy
		policy = service.PasswordPolicy{
			MinLength:        p.MinLength,
			MaxLength:        p.MaxLength,
			RequireUppercase: p.RequireUppercase,
			RequireLowercase: p.RequireLowercase,
			RequireDigit:     p.RequireDigit,
			RequireSymbol:    p.RequireSymbol,
		}
	}

	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		fileStore:   params.FileStore,
		cache:       params.Cache,
		policy:      policy,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// checkPassword applies the credential policy and the confirmation match.
func (srv *accountService) checkPassword(password, confirm string) error {
	if password != confirm {
		return domainerrors.ErrPasswordMismatch
	}

	if violations := srv.policy.Validate(password); len(violations) > 0 {
		return domainerrors.ErrWeakPassword.WithDetails(strings.Join(violations, "; "))
	}

	return nil
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterAccountInput) (*entity.Account, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := srv.checkPassword(input.Password, input.ConfirmPassword); err != nil {
		srv.log(ctx).Warn("Password rejected during registration", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newAccount := &entity.Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		Email:        normalizeEmail(input.Email),
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
		Active:       true,
		Bio:          input.Bio,
		Version:      1,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := srv.checkUniqueness(ctx, accountRepo, newAccount.Username, newAccount.Email, 0); err != nil {
			return err
		}

		return accountRepo.Create(ctx, newAccount)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	srv.cache.Set(newAccount)
	srv.log(ctx).Debug("Registration completed", slog.Uint64("accountID", newAccount.ID))

	return newAccount, nil
}

// checkUniqueness verifies that neither the username nor the email is held by
// another account. The store-level unique constraints remain the final word
// for concurrent inserts.
func (srv *accountService) checkUniqueness(ctx context.Context, accountRepo repository.AccountRepository, username, email string, excludeID uint64) error {
	taken, err := accountRepo.UsernameExists(ctx, username, excludeID)
	if err != nil {
		return errors.Wrap(err, "failed to check username uniqueness")
	}
	if taken {
		return domainerrors.ErrUsernameTaken
	}

	taken, err = accountRepo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return errors.Wrap(err, "failed to check email uniqueness")
	}
	if taken {
		return domainerrors.ErrEmailTaken
	}

	return nil
}

// GetByID retrieves one account, served from the read cache when fresh.
func (srv *accountService) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	if account, ok := srv.cache.Get(id); ok {
		return account, nil
	}

	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	srv.cache.Set(account)

	return account, nil
}

// GetByUsername retrieves one account by its unique username.
func (srv *accountService) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WithDetails(fmt.Sprintf("username %q", username))
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return account, nil
}

// UpdateProfile applies a partial profile update under optimistic concurrency control.
func (srv *accountService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*entity.Account, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, input.ID)
		if err != nil {
			return mapRepoError(err, input.ID)
		}

		if input.FirstName != nil {
			account.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			account.LastName = *input.LastName
		}
		if input.Bio != nil {
			account.Bio = *input.Bio
		}
		if input.Username != nil && *input.Username != account.Username {
			taken, err := accountRepo.UsernameExists(ctx, *input.Username, account.ID)
			if err != nil {
				return errors.Wrap(err, "failed to check username uniqueness")
			}
			if taken {
				return domainerrors.ErrUsernameTaken
			}
			account.Username = *input.Username
		}
		if input.Email != nil {
			email := normalizeEmail(*input.Email)
			if email != account.Email {
				taken, err := accountRepo.EmailExists(ctx, email, account.ID)
				if err != nil {
					return errors.Wrap(err, "failed to check email uniqueness")
				}
				if taken {
					return domainerrors.ErrEmailTaken
				}
				account.Email = email
				account.EmailVerified = false
			}
		}

		if err := accountRepo.Update(ctx, account); err != nil {
			return mapRepoError(err, input.ID)
		}
		updated = account

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update profile", slog.Uint64("accountID", input.ID), slog.Any("error", err))

		return nil, err
	}

	srv.cache.Invalidate(input.ID)
	srv.log(ctx).Debug("Profile updated", slog.Uint64("accountID", input.ID))

	return updated, nil
}

// ChangePassword verifies the current password and replaces it.
func (srv *accountService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if err := srv.checkPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, input.ID)
		if err != nil {
			return mapRepoError(err, input.ID)
		}

		if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
			return domainerrors.ErrWrongPassword
		}

		hashed, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return errors.Wrap(err, "failed to hash new password")
		}
		account.PasswordHash = hashed

		if err := accountRepo.Update(ctx, account); err != nil {
			return mapRepoError(err, input.ID)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to change password", slog.Uint64("accountID", input.ID), slog.Any("error", err))

		return err
	}

	srv.cache.Invalidate(input.ID)
	srv.log(ctx).Info("Password changed", slog.Uint64("accountID", input.ID))

	return nil
}

// mutateAccount loads an account, applies fn, and writes it back under the
// version check, all inside one transaction.
func (srv *accountService) mutateAccount(ctx context.Context, id uint64, fn func(*entity.Account)) (*entity.Account, error) {
	var mutated *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, id)
		if err != nil {
			return mapRepoError(err, id)
		}

		fn(account)

		if err := accountRepo.Update(ctx, account); err != nil {
			return mapRepoError(err, id)
		}
		mutated = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.cache.Invalidate(id)

	return mutated, nil
}

// Activate re-enables a deactivated account and clears any lockout state.
func (srv *accountService) Activate(ctx context.Context, id uint64) error {
	if _, err := srv.mutateAccount(ctx, id, func(account *entity.Account) {
		account.Active = true
		account.ClearLock()
	}); err != nil {
		return err
	}

	srv.log(ctx).Info("Account activated", slog.Uint64("accountID", id))

	return nil
}

// Deactivate disables an account without deleting it.
func (srv *accountService) Deactivate(ctx context.Context, id uint64) error {
	if _, err := srv.mutateAccount(ctx, id, func(account *entity.Account) {
		account.Active = false
	}); err != nil {
		return err
	}

	srv.log(ctx).Info("Account deactivated", slog.Uint64("accountID", id))

	return nil
}

// VerifyEmail marks the account email as verified.
func (srv *accountService) VerifyEmail(ctx context.Context, id uint64) error {
	if _, err := srv.mutateAccount(ctx, id, func(account *entity.Account) {
		account.EmailVerified = true
	}); err != nil {
		return err
	}

	srv.log(ctx).Info("Email verified", slog.Uint64("accountID", id))

	return nil
}

// ChangeRole assigns a new role to the account.
func (srv *accountService) ChangeRole(ctx context.Context, input *usecase.ChangeRoleInput) (*entity.Account, error) {
	role := entity.Role(strings.ToUpper(string(input.Role)))
	if !role.IsValid() {
		return nil, singleFieldError("role", "must be one of ADMIN, MODERATOR, USER, GUEST")
	}

	account, err := srv.mutateAccount(ctx, input.ID, func(account *entity.Account) {
		account.Role = role
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Role changed",
		slog.Uint64("accountID", input.ID),
		slog.String("role", string(role)),
	)

	return account, nil
}

// Delete removes one account permanently.
func (srv *accountService) Delete(ctx context.Context, id uint64) error {
	if err := srv.accountRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}

	srv.cache.Invalidate(id)
	srv.log(ctx).Info("Account deleted", slog.Uint64("accountID", id))

	return nil
}

// BulkDelete removes every listed account, skipping missing IDs instead of
// failing the batch.
func (srv *accountService) BulkDelete(ctx context.Context, ids []uint64) (*usecase.BulkDeleteOutput, error) {
	output := &usecase.BulkDeleteOutput{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		for _, id := range ids {
			err := accountRepo.Delete(ctx, id)
			if errors.Is(err, repository.ErrAccountNotFound) {
				output.Skipped = append(output.Skipped, id)

				continue
			}
			if err != nil {
				return errors.Wrapf(err, "failed to delete account %d", id)
			}
			output.Deleted = append(output.Deleted, id)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute bulk delete transaction", slog.Any("error", err))

		return nil, err
	}

	srv.cache.Clear()
	srv.log(ctx).Info("Bulk delete completed",
		slog.Int("deleted", len(output.Deleted)), slog.Int("skipped", len(output.Skipped)))

	return output, nil
}

// List returns a page of accounts matching the combinable filters.
func (srv *accountService) List(ctx context.Context, input *usecase.ListAccountsInput) (*repository.Page, error) {
	page, err := srv.accountRepo.List(ctx, repository.ListFilter{
		Active:  input.Active,
		Role:    input.Role,
		Term:    input.Term,
		Page:    input.Page,
		PerPage: input.PerPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return page, nil
}

// AdvancedSearch returns a page of accounts matching per-column filters.
func (srv *accountService) AdvancedSearch(ctx context.Context, input *usecase.AdvancedSearchInput) (*repository.Page, error) {
	page, err := srv.accountRepo.AdvancedSearch(ctx, repository.AdvancedFilter{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     normalizeEmail(input.Email),
		Page:      input.Page,
		PerPage:   input.PerPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search accounts")
	}

	return page, nil
}

// Stats aggregates account counts for the dashboard.
func (srv *accountService) Stats(ctx context.Context) (*entity.AccountStats, error) {
	stats, err := srv.accountRepo.Stats(ctx, time.Now().Add(-recentSignupWindow))
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate account stats")
	}

	return stats, nil
}

// UploadAvatar validates and stores an avatar image, replacing any previous one.
func (srv *accountService) UploadAvatar(ctx context.Context, input *usecase.UploadAvatarInput) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, mapRepoError(err, input.AccountID)
	}

	stored, err := srv.fileStore.Store(ctx, input.Content, input.ContentType, input.Filename, avatarSubdir)
	if err != nil {
		srv.log(ctx).Warn("Avatar upload rejected", slog.Uint64("accountID", input.AccountID), slog.Any("error", err))

		return nil, err
	}

	previous := account.AvatarURL
	account.AvatarURL = stored.Path

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		// Roll back the orphaned upload; the account row is unchanged.
		if removeErr := srv.fileStore.Delete(ctx, stored.Path); removeErr != nil {
			srv.log(ctx).Warn("Failed to remove orphaned avatar", slog.String("path", stored.Path), slog.Any("error", removeErr))
		}

		return nil, mapRepoError(err, input.AccountID)
	}

	if previous != "" {
		// Best effort: a leftover file never fails the upload.
		if err := srv.fileStore.Delete(ctx, previous); err != nil {
			srv.log(ctx).Warn("Failed to remove previous avatar", slog.String("path", previous), slog.Any("error", err))
		}
	}

	srv.cache.Invalidate(input.AccountID)
	srv.log(ctx).Info("Avatar updated", slog.Uint64("accountID", input.AccountID), slog.String("path", stored.Path))

	return account, nil
}

// Export renders every account in the requested format.
func (srv *accountService) Export(ctx context.Context, format usecase.ExportFormat) (*usecase.ExportOutput, error) {
	accounts, err := srv.accountRepo.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load accounts for export")
	}

	output, err := renderExport(accounts, format)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Accounts exported", slog.String("format", string(format)), slog.Int("count", len(accounts)))

	return output, nil
}

// mapRepoError translates persistence sentinels into the domain taxonomy.
func mapRepoError(err error, id uint64) error {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return domainerrors.ErrAccountNotFound.WithDetails(fmt.Sprintf("account %d", id))
	case errors.Is(err, repository.ErrStaleVersion):
		return domainerrors.ErrVersionConflict
	default:
		return errors.Wrap(err, "persistence operation failed")
	}
}
