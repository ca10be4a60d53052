package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "userhub/internal/delivery/context"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/service"
	"userhub/internal/usecase"
)

// AuthMiddleware provides middleware for token authentication and policy
// authorization. Errors surface through the central error handler, so every
// denial uses the domain taxonomy.
type AuthMiddleware struct {
	tokenSvc  service.TokenService
	accountUC usecase.AccountUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, accountUC usecase.AccountUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, accountUC: accountUC}
}

// Authenticate validates the bearer access token and resolves the caller's
// account, storing its identity and role on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrInvalidCredentials.WithDetails("authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return domainerrors.ErrTokenMalformed.WithDetails("expected a bearer token")
		}

		subject, err := m.tokenSvc.VerifyAccessToken(tokenString)
		if err != nil {
			return err
		}

		account, err := m.accountUC.GetByUsername(c.Request().Context(), subject)
		if err != nil {
			// The subject no longer resolves to an account; the token is
			// valid but its bearer is gone.
			return domainerrors.ErrInvalidCredentials.WithDetails("token subject not found")
		}
		if !account.Active {
			return domainerrors.ErrAccountDisabled
		}

		deliverycontext.SetCaller(c, account.ID, account.Role)

		return next(c)
	}
}

// Require is a middleware factory enforcing the access policy for one
// operation. The target account is taken from the :id path parameter when
// present. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) Require(op service.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var targetID uint64
			if raw := c.Param("id"); raw != "" {
				parsed, err := strconv.ParseUint(raw, 10, 64)
				if err != nil {
					return domainerrors.ErrAccountNotFound.WithDetails("invalid account id")
				}
				targetID = parsed
			}

			role := deliverycontext.GetCallerRole(c)
			callerID := deliverycontext.GetCallerID(c)

			if !service.Authorize(role, callerID, op, targetID) {
				return domainerrors.ErrAccessDenied
			}

			return next(c)
		}
	}
}
