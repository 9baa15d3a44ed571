// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"surplus/internal/delivery/http/response"
	"surplus/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// IdentityHandlerParams holds dependencies for IdentityHandler, injected by Fx.
type IdentityHandlerParams struct {
	fx.In

	IdentityUC usecase.IdentityUsecase
	Logger     *slog.Logger
}

// IdentityHandler holds dependencies for authentication handlers.
type IdentityHandler struct {
	identityUC usecase.IdentityUsecase
	logger     *slog.Logger
}

// NewIdentityHandler is the constructor for IdentityHandler.
func NewIdentityHandler(params IdentityHandlerParams) *IdentityHandler {
	return &IdentityHandler{
		identityUC: params.IdentityUC,
		logger:     params.Logger,
	}
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"required,oneof=admin customer"`
	DisplayName string `json:"displayName"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the payload returned by register and login.
type AuthResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Token       string `json:"token"`
}

// Register handles the account registration request.
func (h *IdentityHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	output, err := h.identityUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, authResponse(output), "Account registered successfully")
}

// Login handles the login request.
func (h *IdentityHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	output, err := h.identityUC.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, authResponse(output), "Login successful")
}

// Logout clears the persisted session. Logging out twice is not an error.
func (h *IdentityHandler) Logout(c echo.Context) error {
	if err := h.identityUC.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// CurrentSession returns the persisted session, or null data when none exists.
func (h *IdentityHandler) CurrentSession(c echo.Context) error {
	session, err := h.identityUC.CurrentSession(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	if session == nil {
		return response.Success(c, http.StatusOK, nil, "No active session")
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"id":       session.AccountID,
		"username": session.Username,
		"role":     session.Role.String(),
	}, "Session retrieved successfully")
}

func authResponse(output *usecase.AuthOutput) AuthResponse {
	return AuthResponse{
		ID:          output.Account.ID,
		Username:    output.Account.Username,
		DisplayName: output.Account.DisplayName,
		Role:        output.Account.Role.String(),
		Token:       output.Token,
	}
}
