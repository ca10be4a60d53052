package usecase

import (
	"context"

	"userhub/internal/domain/entity"
)

// LoginInput defines the credentials for a login attempt. Username also
// accepts the account email.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RefreshTokenInput carries the refresh token presented for renewal.
type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Account      *entity.Account
}

// RefreshTokenOutput returns the renewed token pair.
type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase defines the interface for authentication operations.
type AuthUsecase interface {
	// Login verifies credentials, enforces the lockout policy, and issues an
	// access/refresh token pair on success.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// RefreshToken exchanges a valid refresh token for a new token pair.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
}
