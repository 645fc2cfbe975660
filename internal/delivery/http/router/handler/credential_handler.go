package handler

import (
	"log/slog"
	"net/http"

	"posauth/internal/delivery/http/response"
	"posauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CredentialHandler holds dependencies for credential management handlers.
// Writes originate from the hosting application's user-management screens.
type CredentialHandler struct {
	directory usecase.DirectoryUsecase
	logger    *slog.Logger
}

// NewCredentialHandler is the constructor for CredentialHandler, injected by Fx.
func NewCredentialHandler(directory usecase.DirectoryUsecase, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{
		directory: directory,
		logger:    logger,
	}
}

// UpsertCredentialRequest is the credential create/replace payload.
type UpsertCredentialRequest struct {
	UserID             uuid.UUID `json:"user_id" validate:"required"`
	Name               string    `json:"name" validate:"required"`
	Login              string    `json:"login" validate:"required"`
	CardID             string    `json:"card_id" validate:"max=64"`
	PIN                string    `json:"pin"`
	RequiresRFID       bool      `json:"requires_rfid"`
	RequirePINWithCard bool      `json:"require_pin_with_card"`
}

// Upsert handles a credential create/replace request.
func (h *CredentialHandler) Upsert(c echo.Context) error {
	var input UpsertCredentialRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "invalid credential input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	err := h.directory.UpsertCredential(c.Request().Context(), usecase.UpsertCredentialInput{
		UserID:             input.UserID,
		Name:               input.Name,
		Login:              input.Login,
		CardID:             input.CardID,
		PIN:                input.PIN,
		RequiresRFID:       input.RequiresRFID,
		RequirePINWithCard: input.RequirePINWithCard,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "stored"})
}

// Remove handles a credential deletion request.
func (h *CredentialHandler) Remove(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user"))
	if err != nil {
		return response.BindingError(c, "invalid user id")
	}

	if err := h.directory.RemoveCredential(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
