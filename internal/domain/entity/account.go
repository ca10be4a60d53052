// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// Lockout policy applied on repeated failed logins.
const (
	// MaxFailedLogins is the number of consecutive failed login attempts
	// after which an account is temporarily locked.
	MaxFailedLogins = 5
	// LockDuration is the length of the lock window applied once
	// MaxFailedLogins is reached.
	LockDuration = 30 * time.Minute
)

// Account is the core entity of the system, representing one registered user.
// The password is only ever held as a hash and never serialized outward.
type Account struct {
	ID            uint64     // Surrogate numeric identity, immutable once assigned.
	FirstName     string     // The user's given name.
	LastName      string     // The user's family name.
	Username      string     // Unique login handle, 3-50 chars of [A-Za-z0-9_-].
	Email         string     // Unique contact email, stored lowercase.
	PasswordHash  string     // bcrypt hash of the credential. Never leaves the backend.
	Role          Role       // The single role assigned to this account.
	Active        bool       // Whether the account may authenticate and operate.
	EmailVerified bool       // Whether the email address has been confirmed.
	Bio           string     // Optional free-text biography, up to 500 chars.
	AvatarURL     string     // Optional reference to the stored avatar file.
	LastLoginAt   *time.Time // Timestamp of the last successful login, nil before the first.
	FailedLogins  int        // Consecutive failed login attempts since the last success.
	LockedUntil   *time.Time // End of the active lock window, nil when not locked.
	Version       uint       // Optimistic concurrency stamp, bumped on every write.
	CreatedAt     time.Time  // Timestamp of account creation, set by the store.
	UpdatedAt     time.Time  // Timestamp of the last modification, set by the store.
}

// Locked reports whether the account is locked at the given instant.
// An account is locked iff LockedUntil is set and still in the future.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// FullName joins the first and last name for display purposes.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// RegisterFailedLogin increments the failed-login counter and, once the
// counter reaches MaxFailedLogins, opens a lock window. An already active
// lock window is not extended by further attempts.
func (a *Account) RegisterFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins && !a.Locked(now) {
		until := now.Add(LockDuration)
		a.LockedUntil = &until
	}
}

// RegisterSuccessfulLogin stamps the last-login time, resets the
// failed-login counter, and clears any lock state.
func (a *Account) RegisterSuccessfulLogin(now time.Time) {
	a.LastLoginAt = &now
	a.ClearLock()
}

// ClearLock resets the failed-login counter and removes the lock window.
func (a *Account) ClearLock() {
	a.FailedLogins = 0
	a.LockedUntil = nil
}
