package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/labstack/echo/v4"
)

const (
	APIKeyHeader = "X-API-Key"
	identityKey  = "auth.identity"
)

type tokenVerifier interface {
	Verify(tokenString string) (Identity, error)
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(verifier tokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}

			identity, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}

			ctx.Set(identityKey, identity)
			return next(ctx)
		}
	}
}

// RequireRole must run after RequireUser.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			identity, ok := IdentityFrom(ctx)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}
			if identity.Role != role {
				return ctx.JSON(http.StatusForbidden, &types.ErrorResponse{Error: "forbidden"})
			}
			return next(ctx)
		}
	}
}

// RequireAPIKey guards internal endpoints. An empty key rejects everything.
func RequireAPIKey(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !ValidAPIKey(apiKey, ctx.Request().Header.Get(APIKeyHeader)) {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}
			return next(ctx)
		}
	}
}

func ValidAPIKey(expected, provided string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

func IdentityFrom(ctx echo.Context) (Identity, bool) {
	identity, ok := ctx.Get(identityKey).(Identity)
	return identity, ok
}

// WithIdentity is used by tests and internal callers to attach an identity.
func WithIdentity(ctx echo.Context, identity Identity) {
	ctx.Set(identityKey, identity)
}
