package usecase

import (
	"context"

	"posauth/internal/domain/entity"

	"github.com/google/uuid"
)

// UpsertCredentialInput defines the data required to create or replace a
// user's authentication material. Writes originate from the external
// user-management collaborator.
type UpsertCredentialInput struct {
	UserID             uuid.UUID
	Name               string
	Login              string
	CardID             string
	PIN                string
	RequiresRFID       bool
	RequirePINWithCard bool
}

// DirectoryUsecase manages registered credentials and their listing.
type DirectoryUsecase interface {
	// UpsertCredential persists the credential, enforcing global card-id
	// uniqueness atomically at write time. A conflict aborts the write
	// entirely and surfaces the conflicting user's name.
	UpsertCredential(ctx context.Context, input UpsertCredentialInput) error

	// RemoveCredential deletes a user's credential.
	RemoveCredential(ctx context.Context, userID uuid.UUID) error

	// GetRfidUsers lists all users that participate in RFID authentication.
	GetRfidUsers(ctx context.Context) ([]*entity.RfidUser, error)
}
