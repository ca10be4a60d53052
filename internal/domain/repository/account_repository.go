// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"userhub/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// ErrStaleVersion is returned by Update when the optimistic version stamp on
// the entity no longer matches the stored row, i.e. a concurrent writer won.
var ErrStaleVersion = errors.New("account version is stale")

// ListFilter captures the combinable filters of the list/search operation.
// Every field is optional; zero values leave the corresponding dimension
// unfiltered. Term is matched case-insensitively as a substring across
// username, email, first name, and last name.
type ListFilter struct {
	Active  *bool
	Role    *entity.Role
	Term    string
	Page    int
	PerPage int
}

// AdvancedFilter is the multi-field search: each field is independently
// optional and substring-matched case-insensitively against its own column.
type AdvancedFilter struct {
	FirstName string
	LastName  string
	Email     string
	Page      int
	PerPage   int
}

// Page is one page of accounts together with the unpaged total.
type Page struct {
	Accounts []*entity.Account
	Total    int64
	Page     int
	PerPage  int
}

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation,
// and no other component may bypass it to mutate persisted state.
type AccountRepository interface {
	// FindByID retrieves a single account by its surrogate ID.
	FindByID(ctx context.Context, id uint64) (*entity.Account, error)

	// FindByUsername retrieves a single account by its unique username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email. The lookup is
	// case-insensitive; emails are stored lowercase.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// UsernameExists reports whether any account other than excludeID holds
	// the username. Pass excludeID 0 to check against all accounts.
	UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error)

	// EmailExists is the case-insensitive counterpart for emails.
	EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error)

	// Create persists a new account. A store-level uniqueness violation is
	// surfaced as the same typed duplicate error as the pre-checks, which
	// closes the concurrent-insert race.
	Create(ctx context.Context, account *entity.Account) error

	// Update writes the account conditional on its Version still matching
	// the stored row, bumping the version on success. A stale version yields
	// ErrStaleVersion, a missing row ErrAccountNotFound.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes the account row. Missing rows yield ErrAccountNotFound.
	Delete(ctx context.Context, id uint64) error

	// List returns a page of accounts matching the combinable filters.
	List(ctx context.Context, filter ListFilter) (*Page, error)

	// AdvancedSearch returns a page of accounts matching the multi-field filter.
	AdvancedSearch(ctx context.Context, filter AdvancedFilter) (*Page, error)

	// All returns every account ordered by ID, for export.
	All(ctx context.Context) ([]*entity.Account, error)

	// Stats aggregates account counts; recentSince bounds the trailing
	// registration window.
	Stats(ctx context.Context, recentSince time.Time) (*entity.AccountStats, error)
}
