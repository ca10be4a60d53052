package service

import "time"

// TokenService defines the interface for issuing and verifying the signed,
// time-limited bearer tokens that carry a session. Tokens are stateless: the
// subject (username) is the only identity they carry and verification needs
// no server-side session store.
type TokenService interface {
	// IssueAccessToken creates a short-lived access token for the subject.
	IssueAccessToken(subject string) (string, error)

	// IssueRefreshToken creates a longer-lived refresh token for the subject.
	IssueRefreshToken(subject string) (string, error)

	// VerifyAccessToken validates an access token and returns its subject.
	// The signature is checked before any claim is trusted. Failures are the
	// typed token errors of the domain taxonomy: malformed, bad signature,
	// expired, or unsupported.
	VerifyAccessToken(token string) (string, error)

	// VerifyRefreshToken is the counterpart for refresh tokens.
	VerifyRefreshToken(token string) (string, error)

	// AccessTokenTTL returns the configured access token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}
