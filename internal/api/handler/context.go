package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/project-management/internal/api/middleware"
	"github.com/teamtrack/project-management/internal/core/domain"
)

// currentUser returns the identity resolved by the Authenticate middleware.
// Its absence means the route was wired without the gate; reject rather than
// proceed anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return user, nil
}
