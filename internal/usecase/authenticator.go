// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"posauth/internal/domain/entity"
)

// AuthenticateInput defines the data presented for one authentication attempt.
type AuthenticateInput struct {
	TerminalID string // Originating terminal, recorded in the audit trail.
	CardID     string // Presented RFID card identifier.
	PIN        string // Optional PIN. Empty means no PIN was supplied.
}

// AuthUsecase verifies a presented card (and optional PIN) against the
// credential registry. It is a pure function of registry state and inputs:
// terminal policy only governs what the calling UI collects before invoking it.
type AuthUsecase interface {
	// Authenticate returns the verified identity snapshot, or a denial error
	// carrying a CARD_NOT_FOUND or PIN_REQUIRED_OR_INCORRECT reason code.
	// A failed authentication is a final answer for that attempt; the caller
	// decides whether to re-prompt.
	Authenticate(ctx context.Context, input AuthenticateInput) (*entity.Identity, error)
}
