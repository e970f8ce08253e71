package api

import (
	"github.com/akarpov/go_gym_backend/internal/app/authapp"
	"github.com/labstack/echo/v4"
	"net/http"
	"strings"
)

const KeyCurrentUser = "current_user"

// LoginRequired verifies the bearer token and attaches the verified
// identity to the request. Handlers behind it read the owner id from
// that identity only.
func LoginRequired(authorizer *authapp.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return JsonError(c, http.StatusUnauthorized, "Invalid Authorization header")
			}
			user, err := authorizer.ValidateAccessToken(parts[1])
			if err != nil {
				return JsonError(c, http.StatusUnauthorized, err.Error())
			}
			c.Set(KeyCurrentUser, user)
			if err := next(c); err != nil {
				c.Error(err)
			}
			return nil
		}
	}
}
