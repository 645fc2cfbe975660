package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"posauth/internal/domain/entity"
	"posauth/internal/domain/repository"
	"posauth/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCredential(name, login, cardID string) *entity.Credential {
	return &entity.Credential{
		UserID:       uuid.New(),
		Name:         name,
		Login:        login,
		CardID:       cardID,
		RequiresRFID: true,
		UpdatedAt:    time.Now(),
	}
}

func TestCredentialRepository_UpsertAndFind(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	cred := newCredential("Ana Reyes", "ana", "CARD1")
	require.NoError(t, repo.Upsert(ctx, cred))

	byCard, err := repo.FindByCard(ctx, "CARD1")
	require.NoError(t, err)
	assert.Equal(t, cred.UserID, byCard.UserID)
	assert.Equal(t, "ana", byCard.Login)

	byUser, err := repo.FindByUser(ctx, cred.UserID)
	require.NoError(t, err)
	assert.Equal(t, "CARD1", byUser.CardID)

	_, err = repo.FindByCard(ctx, "OTHER")
	require.ErrorIs(t, err, repository.ErrCredentialNotFound)
	_, err = repo.FindByUser(ctx, uuid.New())
	require.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestCredentialRepository_EmptyCardNeverMatches(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newCredential("Ana Reyes", "ana", "")))

	_, err := repo.FindByCard(ctx, "")
	require.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestCredentialRepository_DuplicateCardRejected(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	holder := newCredential("Ana Reyes", "ana", "CARD1")
	require.NoError(t, repo.Upsert(ctx, holder))

	err := repo.Upsert(ctx, newCredential("Ben Ortiz", "ben", "CARD1"))
	require.Error(t, err)

	var dup *repository.DuplicateCardError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "CARD1", dup.CardID)
	assert.Equal(t, holder.UserID, dup.ConflictingUserID)
	assert.Equal(t, "Ana Reyes", dup.ConflictingUser)

	// The holder's binding is untouched.
	found, err := repo.FindByCard(ctx, "CARD1")
	require.NoError(t, err)
	assert.Equal(t, holder.UserID, found.UserID)
}

func TestCredentialRepository_ReassignOwnCard(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	cred := newCredential("Ana Reyes", "ana", "CARD1")
	require.NoError(t, repo.Upsert(ctx, cred))

	// Moving the user to a new card frees the old one.
	cred.CardID = "CARD2"
	require.NoError(t, repo.Upsert(ctx, cred))

	_, err := repo.FindByCard(ctx, "CARD1")
	require.ErrorIs(t, err, repository.ErrCredentialNotFound)

	other := newCredential("Ben Ortiz", "ben", "CARD1")
	require.NoError(t, repo.Upsert(ctx, other))
}

func TestCredentialRepository_DeleteFreesCard(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	cred := newCredential("Ana Reyes", "ana", "CARD1")
	require.NoError(t, repo.Upsert(ctx, cred))
	require.NoError(t, repo.Delete(ctx, cred.UserID))
	require.ErrorIs(t, repo.Delete(ctx, cred.UserID), repository.ErrCredentialNotFound)

	require.NoError(t, repo.Upsert(ctx, newCredential("Ben Ortiz", "ben", "CARD1")))
}

func TestCredentialRepository_ConcurrentUpsertsSingleWinner(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	const contenders = 32

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Upsert(ctx, newCredential("Contender", "contender", "CARD1"))
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}

		var dup *repository.DuplicateCardError
		require.True(t, errors.As(err, &dup))
		conflicts++
	}

	assert.Equal(t, 1, successes, "exactly one contender wins the card")
	assert.Equal(t, contenders-1, conflicts)
}

func TestCredentialRepository_FindReturnsCopy(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	cred := newCredential("Ana Reyes", "ana", "CARD1")
	require.NoError(t, repo.Upsert(ctx, cred))

	found, err := repo.FindByCard(ctx, "CARD1")
	require.NoError(t, err)
	found.Name = "mutated"

	again, err := repo.FindByCard(ctx, "CARD1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", again.Name)
}

func TestCredentialRepository_ListRfidUsers(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	withPIN := newCredential("Cleo Brant", "cleo", "CARD9")
	withPIN.PIN = "1234"
	withPIN.RequirePINWithCard = true

	optedOut := newCredential("OptedOut", "out", "CARD5")
	optedOut.RequiresRFID = false

	for _, cred := range []*entity.Credential{
		withPIN,
		newCredential("Ana Reyes", "ana", "CARD1"),
		newCredential("NoCard", "nocard", ""),
		optedOut,
	} {
		require.NoError(t, repo.Upsert(ctx, cred))
	}

	users, err := repo.ListRfidUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "CARD1", users[0].CardID)
	assert.Equal(t, "CARD9", users[1].CardID)
	assert.True(t, users[1].RequirePINWithCard)
}
