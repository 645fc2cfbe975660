// Package service defines domain-level service contracts implemented by the
// infrastructure layer.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit outcomes recorded per authentication attempt.
const (
	AuditOutcomeSuccess     = "success"
	AuditOutcomeCardUnknown = "card_not_found"
	AuditOutcomePINRejected = "pin_rejected"
)

// AuditEntry is one authentication attempt record.
type AuditEntry struct {
	Time        time.Time  // When the attempt was decided.
	TerminalID  string     // Terminal the attempt originated from, if known.
	CardID      string     // Presented card identifier.
	PINSupplied bool       // Whether a PIN accompanied the card. The PIN value itself is never recorded.
	Outcome     string     // One of the AuditOutcome constants.
	UserID      *uuid.UUID // Resolved user on success, nil otherwise.
}

// AuditSink receives best-effort audit records of authentication attempts.
// Implementations must never block the caller for long and must never fail:
// emission is fully decoupled from the authentication decision.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}
