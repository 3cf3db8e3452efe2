package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/erickogi/cards-restful/internal/api/metrics"
	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email    string   `json:"email"    validate:"required,email,max=50"`
	Password string   `json:"password" validate:"required,min=6,max=40"`
	Role     []string `json:"role"`
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type jwtResponse struct {
	Token string   `json:"token"`
	Type  string   `json:"type"`
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// SignUp registers a new user.
//
// @Summary      Register a new user
// @Description  role accepts "admin"; anything else, or nothing, grants member.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.Role)
	observeAuth("signup", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User registered successfully!"})
}

// SignIn authenticates a user and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	observeAuth("signin", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, jwtResponse{
		Token: token,
		Type:  "Bearer",
		ID:    user.ID,
		Email: user.Email,
		Roles: user.RoleNames(),
	})
}

func observeAuth(action string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid"
	case errors.Is(err, domain.ErrEmailTaken):
		result = "conflict"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}
