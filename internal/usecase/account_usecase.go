// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"userhub/internal/domain/entity"
	"userhub/internal/domain/repository"
)

// ExportFormat selects the serialization of the account export.
type ExportFormat string

const (
	// ExportCSV produces an RFC 4180 comma-separated file.
	ExportCSV ExportFormat = "csv"

	// ExportJSON produces a JSON array of account records.
	ExportJSON ExportFormat = "json"

	// ExportExcel produces an .xlsx workbook with a single sheet.
	ExportExcel ExportFormat = "excel"
)

// --- Input DTOs ---

// RegisterAccountInput defines the data required to register a new account.
type RegisterAccountInput struct {
	FirstName       string `validate:"required,max=50"`
	LastName        string `validate:"required,max=50"`
	Username        string `validate:"required,min=3,max=50,username"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	Bio             string `validate:"omitempty,max=500"`
}

// UpdateProfileInput defines the mutable profile fields. Nil pointers leave
// the corresponding field unchanged.
type UpdateProfileInput struct {
	ID        uint64
	FirstName *string `validate:"omitempty,max=50"`
	LastName  *string `validate:"omitempty,max=50"`
	Username  *string `validate:"omitempty,min=3,max=50,username"`
	Email     *string `validate:"omitempty,email"`
	Bio       *string `validate:"omitempty,max=500"`
}

// ChangeRoleInput assigns a new role to an account.
type ChangeRoleInput struct {
	ID   uint64
	Role entity.Role `validate:"required"`
}

// ChangePasswordInput defines the data required to change an account password.
type ChangePasswordInput struct {
	ID              uint64
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// ListAccountsInput defines the combinable list filters and pagination.
type ListAccountsInput struct {
	Active  *bool
	Role    *entity.Role
	Term    string
	Page    int
	PerPage int
}

// AdvancedSearchInput defines the per-column search filters.
type AdvancedSearchInput struct {
	FirstName string
	LastName  string
	Email     string
	Page      int
	PerPage   int
}

// UploadAvatarInput carries the raw upload for an account avatar.
type UploadAvatarInput struct {
	AccountID   uint64
	Filename    string
	ContentType string
	Content     []byte
}

// --- Output DTOs ---

// BulkDeleteOutput reports which requested IDs were removed and which were
// skipped because no matching account existed.
type BulkDeleteOutput struct {
	Deleted []uint64
	Skipped []uint64
}

// ExportOutput is the rendered export file.
type ExportOutput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register creates a new account after validating input, password
	// strength, and username/email uniqueness.
	Register(ctx context.Context, input *RegisterAccountInput) (*entity.Account, error)

	// GetByID retrieves one account, served from the read cache when fresh.
	GetByID(ctx context.Context, id uint64) (*entity.Account, error)

	// GetByUsername retrieves one account by its unique username.
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)

	// UpdateProfile applies a partial profile update under optimistic
	// concurrency control.
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.Account, error)

	// ChangePassword verifies the current password and replaces it.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error

	// Activate re-enables a deactivated account.
	Activate(ctx context.Context, id uint64) error

	// Deactivate disables an account without deleting it.
	Deactivate(ctx context.Context, id uint64) error

	// VerifyEmail marks the account email as verified.
	VerifyEmail(ctx context.Context, id uint64) error

	// ChangeRole assigns a new role to the account.
	ChangeRole(ctx context.Context, input *ChangeRoleInput) (*entity.Account, error)

	// Delete removes one account permanently.
	Delete(ctx context.Context, id uint64) error

	// BulkDelete removes every listed account, skipping missing IDs instead
	// of failing the batch.
	BulkDelete(ctx context.Context, ids []uint64) (*BulkDeleteOutput, error)

	// List returns a page of accounts matching the combinable filters.
	List(ctx context.Context, input *ListAccountsInput) (*repository.Page, error)

	// AdvancedSearch returns a page of accounts matching per-column filters.
	AdvancedSearch(ctx context.Context, input *AdvancedSearchInput) (*repository.Page, error)

	// Stats aggregates account counts for the dashboard.
	Stats(ctx context.Context) (*entity.AccountStats, error)

	// Export renders every account in the requested format.
	Export(ctx context.Context, format ExportFormat) (*ExportOutput, error)

	// UploadAvatar validates and stores an avatar image, replacing any
	// previous one.
	UploadAvatar(ctx context.Context, input *UploadAvatarInput) (*entity.Account, error)
}
