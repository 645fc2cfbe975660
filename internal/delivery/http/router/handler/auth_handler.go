// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"posauth/internal/delivery/http/response"
	"posauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	auth      usecase.AuthUsecase
	directory usecase.DirectoryUsecase
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(auth usecase.AuthUsecase, directory usecase.DirectoryUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		directory: directory,
		logger:    logger,
	}
}

// AuthenticateRequest is the card-swipe payload from the terminal UI.
type AuthenticateRequest struct {
	TerminalID string `json:"terminal_id"`
	CardID     string `json:"card_id" validate:"required,max=64"`
	PIN        string `json:"pin"`
}

// Authenticate handles a card-presented authentication request.
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var input AuthenticateRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "invalid authentication input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	identity, err := h.auth.Authenticate(c.Request().Context(), usecase.AuthenticateInput{
		TerminalID: input.TerminalID,
		CardID:     input.CardID,
		PIN:        input.PIN,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, identity)
}

// ListRfidUsers returns all users that participate in RFID authentication.
func (h *AuthHandler) ListRfidUsers(c echo.Context) error {
	users, err := h.directory.GetRfidUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users)
}
