// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"strings"
	"time"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultPerPage = 20

// accountRepository implements the domain AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its surrogate ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uint64) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).First(&accountM, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByUsername retrieves a single account by its unique username.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("username = ?", username).First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by email. Emails are stored
// lowercase, so lowering the needle makes the lookup case-insensitive.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// UsernameExists reports whether any account other than excludeID holds the username.
func (repo *accountRepository) UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error) {
	var count int64
	query := repo.db.WithContext(ctx).Model(&model.AccountModel{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check username existence")
	}

	return count > 0, nil
}

// EmailExists is the case-insensitive counterpart for emails.
func (repo *accountRepository) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var count int64
	query := repo.db.WithContext(ctx).Model(&model.AccountModel{}).Where("email = ?", strings.ToLower(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check email existence")
	}

	return count > 0, nil
}

// Create persists a new account. A store-level uniqueness violation is
// mapped onto the same typed duplicate errors as the application-side
// pre-checks, so a concurrent insert surfaces as a duplicate, not a 500.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)
	accountM.Version = 1

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return duplicateError(err)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.Version = accountM.Version
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update writes the account conditional on its version still matching the
// stored row (compare-and-swap). A stale version yields ErrStaleVersion so
// concurrent updates fail distinctly instead of silently overwriting.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]any{
			"first_name":     accountM.FirstName,
			"last_name":      accountM.LastName,
			"username":       accountM.Username,
			"email":          accountM.Email,
			"password_hash":  accountM.PasswordHash,
			"role":           accountM.Role,
			"active":         accountM.Active,
			"email_verified": accountM.EmailVerified,
			"bio":            accountM.Bio,
			"avatar_url":     accountM.AvatarURL,
			"last_login_at":  accountM.LastLoginAt,
			"failed_logins":  accountM.FailedLogins,
			"locked_until":   accountM.LockedUntil,
			"version":        gorm.Expr("version + 1"),
		})

	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return duplicateError(err)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update account")
	}

	if result.RowsAffected == 0 {
		// Either the row is gone or the version is stale; tell them apart.
		var count int64
		if err := repo.db.WithContext(ctx).Model(&model.AccountModel{}).Where("id = ?", account.ID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to verify account existence after stale update")
		}
		if count == 0 {
			return repository.ErrAccountNotFound
		}

		return repository.ErrStaleVersion
	}

	account.Version++

	return nil
}

// Delete removes the account row.
func (repo *accountRepository) Delete(ctx context.Context, id uint64) error {
	result := repo.db.WithContext(ctx).Delete(&model.AccountModel{}, id)
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// List returns a page of accounts matching the combinable filters.
func (repo *accountRepository) List(ctx context.Context, filter repository.ListFilter) (*repository.Page, error) {
	query := repo.db.WithContext(ctx).Model(&model.AccountModel{})
	query = applyActiveFilter(query, filter.Active)
	query = applyRoleFilter(query, filter.Role)
	query = applyTermFilter(query, filter.Term)

	return repo.paginate(query, filter.Page, filter.PerPage)
}

// AdvancedSearch returns a page of accounts matching the multi-field filter.
func (repo *accountRepository) AdvancedSearch(ctx context.Context, filter repository.AdvancedFilter) (*repository.Page, error) {
	query := repo.db.WithContext(ctx).Model(&model.AccountModel{})
	query = applyColumnContains(query, "first_name", filter.FirstName)
	query = applyColumnContains(query, "last_name", filter.LastName)
	query = applyColumnContains(query, "email", filter.Email)

	return repo.paginate(query, filter.Page, filter.PerPage)
}

// All returns every account ordered by ID, for export.
func (repo *accountRepository) All(ctx context.Context) ([]*entity.Account, error) {
	var models []model.AccountModel
	if err := repo.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load accounts for export")
	}

	accounts := make([]*entity.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, toAccountDomain(&models[i]))
	}

	return accounts, nil
}

// Stats aggregates account counts in a handful of grouped queries.
func (repo *accountRepository) Stats(ctx context.Context, recentSince time.Time) (*entity.AccountStats, error) {
	db := repo.db.WithContext(ctx).Model(&model.AccountModel{})
	stats := &entity.AccountStats{ByRole: make(map[entity.Role]int64)}

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count accounts")
	}
	if err := db.Session(&gorm.Session{}).Where("active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count active accounts")
	}
	stats.Inactive = stats.Total - stats.Active

	var roleCounts []struct {
		Role  string
		Count int64
	}
	if err := db.Session(&gorm.Session{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roleCounts).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count accounts per role")
	}
	for _, rc := range roleCounts {
		stats.ByRole[entity.Role(rc.Role)] = rc.Count
	}

	if err := db.Session(&gorm.Session{}).Where("created_at >= ?", recentSince).Count(&stats.RecentSignups).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count recent signups")
	}

	// Guard the percentage against an empty table.
	if stats.Total > 0 {
		var verified int64
		if err := db.Session(&gorm.Session{}).Where("email_verified = ?", true).Count(&verified).Error; err != nil {
			return nil, errors.Wrap(err, "failed to count verified accounts")
		}
		stats.VerifiedEmailPercent = float64(verified) / float64(stats.Total) * 100
	}

	return stats, nil
}

func (repo *accountRepository) paginate(query *gorm.DB, page, perPage int) (*repository.Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count matching accounts")
	}

	var models []model.AccountModel
	err := query.Order("id").Offset((page - 1) * perPage).Limit(perPage).Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, toAccountDomain(&models[i]))
	}

	return &repository.Page{
		Accounts: accounts,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// --- Filter builders ---
// Each filter of the list/search surface is a named, independently testable
// function rather than a dynamically assembled query.

// applyActiveFilter restricts the query to the given activation state; nil
// leaves the dimension unfiltered.
func applyActiveFilter(query *gorm.DB, active *bool) *gorm.DB {
	if active == nil {
		return query
	}

	return query.Where("active = ?", *active)
}

// applyRoleFilter restricts the query to one role; nil leaves it unfiltered.
func applyRoleFilter(query *gorm.DB, role *entity.Role) *gorm.DB {
	if role == nil {
		return query
	}

	return query.Where("role = ?", role.String())
}

// applyTermFilter matches the term case-insensitively as a substring across
// username, email, first name, and last name.
func applyTermFilter(query *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return query
	}

	pattern := "%" + strings.ToLower(term) + "%"

	return query.Where(
		"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
		pattern, pattern, pattern, pattern,
	)
}

// applyColumnContains matches one column case-insensitively as a substring;
// an empty needle leaves the column unfiltered.
func applyColumnContains(query *gorm.DB, column, needle string) *gorm.DB {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return query
	}

	return query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(needle)+"%")
}

// --- Mapper functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:            data.ID,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Username:      data.Username,
		Email:         data.Email,
		PasswordHash:  data.PasswordHash,
		Role:          entity.Role(data.Role),
		Active:        data.Active,
		EmailVerified: data.EmailVerified,
		Bio:           data.Bio,
		AvatarURL:     data.AvatarURL,
		LastLoginAt:   data.LastLoginAt,
		FailedLogins:  data.FailedLogins,
		LockedUntil:   data.LockedUntil,
		Version:       data.Version,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:            data.ID,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Username:      data.Username,
		Email:         strings.ToLower(data.Email),
		PasswordHash:  data.PasswordHash,
		Role:          data.Role.String(),
		Active:        data.Active,
		EmailVerified: data.EmailVerified,
		Bio:           data.Bio,
		AvatarURL:     data.AvatarURL,
		LastLoginAt:   data.LastLoginAt,
		FailedLogins:  data.FailedLogins,
		LockedUntil:   data.LockedUntil,
		Version:       data.Version,
	}
}
