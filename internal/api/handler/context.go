package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/erickogi/cards-restful/internal/api/middleware"
)

// bearerToken returns the token the Auth middleware extracted. Handlers pass
// it to the service untouched; the service decides who the caller is.
func bearerToken(c echo.Context) string {
	return middleware.Token(c)
}
