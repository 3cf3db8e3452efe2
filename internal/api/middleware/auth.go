package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenContextKey is the echo context key holding the raw bearer token.
const TokenContextKey = "bearer_token"

const bearerPrefix = "Bearer "

// Auth requires an "Authorization: Bearer <token>" header and stores the raw
// token in the context. Token verification happens when the service resolves
// the caller, so an unusable token surfaces as an unknown user.
func Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			token := strings.TrimSpace(header[len(bearerPrefix):])
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(TokenContextKey, token)
			return next(c)
		}
	}
}

// Token returns the bearer token stored by Auth, or "" when absent.
func Token(c echo.Context) string {
	token, _ := c.Get(TokenContextKey).(string)
	return token
}
