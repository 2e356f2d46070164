package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

const claimsContextKey = "admin_claims"

type tokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// AdminAuthMiddleware guards the whole /admin group with one bearer token check.
// The role comes from the stored user, not from the token.
type AdminAuthMiddleware struct {
	auth   tokenAuthenticator
	logger logrus.FieldLogger
}

func NewAdminAuthMiddleware(auth tokenAuthenticator) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		auth:   auth,
		logger: factory.NewModuleLogger("admin-auth-middleware"),
	}
}

func (m *AdminAuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "missing bearer token"})
			}

			claims, err := m.auth.Authenticate(ctx.Request().Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					factory.LoggerWithContext(m.logger, ctx).WithError(err).Debug("admin token rejected")
					return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "invalid or expired token"})
				}
				factory.LoggerWithContext(m.logger, ctx).WithError(err).Error("Admin authentication failed")
				return ctx.JSON(http.StatusInternalServerError, &types.ErrorResponse{Error: "internal server error"})
			}
			if claims.Role != entity.UserRoleAdmin {
				return ctx.JSON(http.StatusForbidden, &types.ErrorResponse{Error: "admin role required"})
			}

			ctx.Set(claimsContextKey, claims)
			return next(ctx)
		}
	}
}

// ClaimsFromContext returns the claims stored by RequireAdmin, or nil.
func ClaimsFromContext(ctx echo.Context) *service.Claims {
	claims, _ := ctx.Get(claimsContextKey).(*service.Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
