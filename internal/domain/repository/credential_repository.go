// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"posauth/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is a domain-specific error returned when no
// credential matches the lookup. An empty card id always resolves to this
// error: "no card" is never matched against another "no card" record.
var ErrCredentialNotFound = errors.New("credential not found")

// DuplicateCardError is returned when a write would bind a non-empty card id
// that already belongs to a different user. It carries the conflicting user
// so the caller can reject the edit with a meaningful message.
type DuplicateCardError struct {
	CardID            string
	ConflictingUserID uuid.UUID
	ConflictingUser   string
}

// Error implements the error interface.
func (e *DuplicateCardError) Error() string {
	return fmt.Sprintf("RFID card %q is already assigned to user %q", e.CardID, e.ConflictingUser)
}

// CredentialRepository defines the standard operations for credential persistence.
// The application layer depends on this interface, not the concrete implementation.
//
// FindByCard and ListRfidUsers may execute concurrently from multiple terminal
// sessions; Upsert must be atomic with respect to the card-uniqueness check.
type CredentialRepository interface {
	// FindByCard retrieves the credential bound to the given non-empty card id.
	FindByCard(ctx context.Context, cardID string) (*entity.Credential, error)

	// FindByUser retrieves the credential of a specific user.
	FindByUser(ctx context.Context, userID uuid.UUID) (*entity.Credential, error)

	// Upsert creates or replaces the credential for cred.UserID. It fails with
	// *DuplicateCardError when the card id is held by a different user, before
	// any state changes.
	Upsert(ctx context.Context, cred *entity.Credential) error

	// Delete removes the credential of a user, e.g. when the external
	// directory deletes the user record.
	Delete(ctx context.Context, userID uuid.UUID) error

	// ListRfidUsers returns every credential with a non-empty card id and the
	// requires-RFID flag set. The order is deterministic for a given registry
	// state but callers must not rely on it across mutations.
	ListRfidUsers(ctx context.Context) ([]*entity.RfidUser, error)
}
