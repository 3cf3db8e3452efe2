package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/erickogi/cards-restful/internal/api/handler"
	"github.com/erickogi/cards-restful/internal/core/domain"
)

const validationMessage = "Request Validation errors"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain and
// validation errors to status codes and logs anything unexpected without
// leaking it to the client. Every body is {"message": "..."}, with an extra
// "errors" list for validation failures.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var rve *handler.RequestValidationError
	if errors.As(err, &rve) {
		return http.StatusBadRequest, errorResponse{Message: validationMessage, Errors: rve.Errors}
	}

	var dve *domain.ValidationError
	if errors.As(err, &dve) {
		return http.StatusBadRequest, errorResponse{Message: validationMessage, Errors: []string{dve.Error()}}
	}

	// Echo's own errors (bind failures, 404 from router, missing bearer).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrUnknownUser):
		return http.StatusBadRequest, errorResponse{Message: "Error: user does not exist"}
	case errors.Is(err, domain.ErrCardNotFound):
		return http.StatusNotFound, errorResponse{Message: "card not found"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, errorResponse{Message: "Error: Email is already in use!"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "Bad credentials"}
	case errors.Is(err, domain.ErrRoleNotFound):
		log.Error().Err(err).Msg("role table is not seeded")
		return http.StatusInternalServerError, errorResponse{Message: "Error: Role is not found."}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}
