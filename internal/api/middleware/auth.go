package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/project-management/internal/api/metrics"
	"github.com/teamtrack/project-management/internal/core/domain"
	"github.com/teamtrack/project-management/internal/core/token"
)

// UserResolver is the store lookup the gate needs to re-resolve a token's
// subject. ports.UserRepository satisfies it.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "auth"

const userContextKey = "auth.user"

// Authenticate extracts the session cookie, verifies the token, and
// re-resolves the subject against the user store. Downstream role checks see
// the resolved user, never the token claims, so a role edit or deletion takes
// effect on the next request even while the token is still unexpired.
func Authenticate(tokens *token.Manager, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("no_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AuthRejectionsTotal.WithLabelValues("user_not_found").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
				}
				return err
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// SetUser attaches the resolved user to the request context.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(userContextKey, user)
}

// UserFromContext returns the user attached by Authenticate.
func UserFromContext(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok
}
