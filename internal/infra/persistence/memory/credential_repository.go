// Package memory contains an in-process implementation of the credential
// registry for embedded single-host deployments and tests. Lookups are an
// indexed map access, and the uniqueness check is a guarded insert under the
// registry lock, never a check-then-insert race.
package memory

import (
	"context"
	"sort"
	"sync"

	"posauth/internal/domain/entity"
	"posauth/internal/domain/repository"
	"posauth/internal/errors"

	"github.com/google/uuid"
)

// credentialRepository implements repository.CredentialRepository with two
// synchronized maps: credentials by user and a card-id index.
type credentialRepository struct {
	mu        sync.RWMutex
	byUser    map[uuid.UUID]*entity.Credential
	cardIndex map[string]uuid.UUID
}

// NewCredentialRepository creates an empty in-memory registry.
func NewCredentialRepository() repository.CredentialRepository {
	return &credentialRepository{
		byUser:    make(map[uuid.UUID]*entity.Credential),
		cardIndex: make(map[string]uuid.UUID),
	}
}

// FindByCard retrieves the credential bound to the given card id.
// An empty id never matches anything.
func (repo *credentialRepository) FindByCard(_ context.Context, cardID string) (*entity.Credential, error) {
	if cardID == "" {
		return nil, repository.ErrCredentialNotFound
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	userID, ok := repo.cardIndex[cardID]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}

	return cloneCredential(repo.byUser[userID]), nil
}

// FindByUser retrieves the credential of a specific user.
func (repo *credentialRepository) FindByUser(_ context.Context, userID uuid.UUID) (*entity.Credential, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	cred, ok := repo.byUser[userID]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}

	return cloneCredential(cred), nil
}

// Upsert creates or replaces the credential for cred.UserID. The uniqueness
// check and the write happen under one write lock, so concurrent upserts of
// the same card id cannot both succeed.
func (repo *credentialRepository) Upsert(_ context.Context, cred *entity.Credential) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if cred.HasCard() {
		if holder, ok := repo.cardIndex[cred.CardID]; ok && holder != cred.UserID {
			conflicting := repo.byUser[holder]

			return errors.WithStack(&repository.DuplicateCardError{
				CardID:            cred.CardID,
				ConflictingUserID: holder,
				ConflictingUser:   conflicting.Name,
			})
		}
	}

	if previous, ok := repo.byUser[cred.UserID]; ok && previous.HasCard() {
		delete(repo.cardIndex, previous.CardID)
	}

	repo.byUser[cred.UserID] = cloneCredential(cred)
	if cred.HasCard() {
		repo.cardIndex[cred.CardID] = cred.UserID
	}

	return nil
}

// Delete removes the credential of a user.
func (repo *credentialRepository) Delete(_ context.Context, userID uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	cred, ok := repo.byUser[userID]
	if !ok {
		return repository.ErrCredentialNotFound
	}

	if cred.HasCard() {
		delete(repo.cardIndex, cred.CardID)
	}
	delete(repo.byUser, userID)

	return nil
}

// ListRfidUsers returns every credential with a card and the requires-RFID
// flag, sorted by card id for a deterministic order.
func (repo *credentialRepository) ListRfidUsers(_ context.Context) ([]*entity.RfidUser, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	users := make([]*entity.RfidUser, 0, len(repo.cardIndex))
	for _, cred := range repo.byUser {
		if !cred.HasCard() || !cred.RequiresRFID {
			continue
		}

		users = append(users, &entity.RfidUser{
			UserID:             cred.UserID,
			Name:               cred.Name,
			CardID:             cred.CardID,
			RequirePINWithCard: cred.RequirePINWithCard,
		})
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CardID < users[j].CardID
	})

	return users, nil
}

// cloneCredential copies a credential so callers never alias registry state.
func cloneCredential(cred *entity.Credential) *entity.Credential {
	clone := *cred

	return &clone
}
