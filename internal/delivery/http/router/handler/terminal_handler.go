package handler

import (
	"log/slog"
	"net/http"
	"time"

	"posauth/internal/delivery/http/response"
	"posauth/internal/domain/service"
	"posauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TerminalHandler holds dependencies for terminal session and lock handlers.
type TerminalHandler struct {
	locks    usecase.LockUsecase
	policies service.PolicyProvider
	logger   *slog.Logger
}

// NewTerminalHandler is the constructor for TerminalHandler, injected by Fx.
func NewTerminalHandler(locks usecase.LockUsecase, policies service.PolicyProvider, logger *slog.Logger) *TerminalHandler {
	return &TerminalHandler{
		locks:    locks,
		policies: policies,
		logger:   logger,
	}
}

// OpenSession starts a terminal session and returns its initial lock state.
func (h *TerminalHandler) OpenSession(c echo.Context) error {
	ctrl := h.locks.Open(c.Param("terminal"))

	return response.Success(c, http.StatusCreated, map[string]any{
		"policy": ctrl.Policy(),
		"lock":   ctrl.CurrentState(),
	})
}

// CloseSession ends a terminal session and discards its lock state.
func (h *TerminalHandler) CloseSession(c echo.Context) error {
	if err := h.locks.Close(c.Param("terminal")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Policy returns the terminal's policy snapshot so the UI can decide what to
// collect (PIN prompt, RFID-only) before calling authenticate.
func (h *TerminalHandler) Policy(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.policies.PolicyFor(c.Param("terminal")))
}

// LockState returns the current lock status, evaluating the inactivity
// timeout lazily.
func (h *TerminalHandler) LockState(c echo.Context) error {
	ctrl, err := h.locks.Get(c.Param("terminal"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ctrl.CurrentState())
}

// RecordActivity registers a user-activity tick for the terminal.
func (h *TerminalHandler) RecordActivity(c echo.Context) error {
	ctrl, err := h.locks.Get(c.Param("terminal"))
	if err != nil {
		return errors.WithStack(err)
	}

	ctrl.RecordActivity(time.Now())

	return response.Success(c, http.StatusOK, ctrl.CurrentState())
}

// Lock locks the terminal immediately.
func (h *TerminalHandler) Lock(c echo.Context) error {
	ctrl, err := h.locks.Get(c.Param("terminal"))
	if err != nil {
		return errors.WithStack(err)
	}

	ctrl.Lock(time.Now())

	return response.Success(c, http.StatusOK, ctrl.CurrentState())
}

// UnlockRequest is the unlock attempt payload: a card swipe plus optional PIN.
type UnlockRequest struct {
	CardID string `json:"card_id" validate:"required,max=64"`
	PIN    string `json:"pin"`
}

// Unlock routes an unlock attempt through the authenticator.
func (h *TerminalHandler) Unlock(c echo.Context) error {
	ctrl, err := h.locks.Get(c.Param("terminal"))
	if err != nil {
		return errors.WithStack(err)
	}

	var input UnlockRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "invalid unlock input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	identity, err := ctrl.AttemptUnlock(c.Request().Context(), input.CardID, input.PIN)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"identity": identity,
		"lock":     ctrl.CurrentState(),
	})
}
