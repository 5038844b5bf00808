package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/project-management/internal/api/metrics"
	"github.com/teamtrack/project-management/internal/core/domain"
)

// RequireRole enforces role-based access control over the user resolved by
// Authenticate. The check runs against the user's current role in the store,
// not the role claim frozen into the token at issue time.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("no_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}
			if !user.Role.In(allowed...) {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Access denied")
			}
			return next(c)
		}
	}
}
