// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"userhub/config"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/service"
	"userhub/internal/errors"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Access and refresh tokens are signed with distinct secrets and carry
// independent expirations bound to the same subject.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL := cfg.Token.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.Token.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccessToken creates a short-lived access token for the subject.
func (s *jwtService) IssueAccessToken(subject string) (string, error) {
	return s.issue(subject, s.accessTTL, s.accessSecret, tokenTypeAccess)
}

// IssueRefreshToken creates a longer-lived refresh token for the subject.
func (s *jwtService) IssueRefreshToken(subject string) (string, error) {
	return s.issue(subject, s.refreshTTL, s.refreshSecret, tokenTypeRefresh)
}

// VerifyAccessToken validates an access token and returns its subject.
func (s *jwtService) VerifyAccessToken(token string) (string, error) {
	return s.verify(token, s.accessSecret, tokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token and returns its subject.
func (s *jwtService) VerifyRefreshToken(token string) (string, error) {
	return s.verify(token, s.refreshSecret, tokenTypeRefresh)
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// issue creates a signed HS256 token carrying the subject and token type.
func (s *jwtService) issue(subject string, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// verify parses and validates a token, mapping library failures onto the
// typed taxonomy. The signature is checked by jwt.Parse before any claim is
// trusted; an expired-but-correctly-signed token is distinguished from a
// tampered one, though both fail authentication at the boundary.
func (s *jwtService) verify(tokenString, secret, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return "", mapJWTError(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domainerrors.ErrTokenMalformed
	}

	if typ, _ := claims["type"].(string); typ != wantType {
		return "", domainerrors.ErrTokenUnsupported.WithDetails("unexpected token type")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", domainerrors.ErrTokenMalformed
	}

	return subject, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domainerrors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domainerrors.ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domainerrors.ErrTokenMalformed
	default:
		return domainerrors.ErrTokenUnsupported.WithDetails(err.Error())
	}
}
