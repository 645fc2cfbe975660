package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	domainerrors "posauth/internal/domain/errors"
	"posauth/internal/infra/persistence/memory"
	"posauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDirectoryService(t *testing.T) usecase.DirectoryUsecase {
	t.Helper()

	repo := memory.NewCredentialRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewDirectoryService(memory.NewTransactionManager(repo), repo, logger)
}

func TestDirectoryService_UpsertCredential_DuplicateCardNamesHolder(t *testing.T) {
	srv := createTestDirectoryService(t)
	ctx := context.Background()

	holder := usecase.UpsertCredentialInput{
		UserID:       uuid.New(),
		Name:         "Ana Reyes",
		Login:        "ana",
		CardID:       "CARD1",
		RequiresRFID: true,
	}
	require.NoError(t, srv.UpsertCredential(ctx, holder))

	err := srv.UpsertCredential(ctx, usecase.UpsertCredentialInput{
		UserID: uuid.New(),
		Name:   "Ben Ortiz",
		Login:  "ben",
		CardID: "CARD1",
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrDuplicateCard.ErrorCode(), appErr.ErrorCode())
	assert.Contains(t, appErr.Details(), "Ana Reyes")

	// The rejected write left no trace.
	users, err := srv.GetRfidUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, holder.UserID, users[0].UserID)
}

func TestDirectoryService_UpsertCredential_SameUserKeepsCard(t *testing.T) {
	srv := createTestDirectoryService(t)
	ctx := context.Background()

	input := usecase.UpsertCredentialInput{
		UserID:       uuid.New(),
		Name:         "Ana Reyes",
		Login:        "ana",
		CardID:       "CARD1",
		RequiresRFID: true,
	}
	require.NoError(t, srv.UpsertCredential(ctx, input))

	// Re-upserting the same user with the same card is not a conflict.
	input.PIN = "1234"
	input.RequirePINWithCard = true
	require.NoError(t, srv.UpsertCredential(ctx, input))

	users, err := srv.GetRfidUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].RequirePINWithCard)
}

func TestDirectoryService_UpsertCredential_CardTooLong(t *testing.T) {
	srv := createTestDirectoryService(t)

	err := srv.UpsertCredential(context.Background(), usecase.UpsertCredentialInput{
		UserID: uuid.New(),
		Name:   "Ana Reyes",
		Login:  "ana",
		CardID: strings.Repeat("A", 65),
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
}

func TestDirectoryService_UpsertCredential_EmptyCardsNeverConflict(t *testing.T) {
	srv := createTestDirectoryService(t)
	ctx := context.Background()

	// Any number of users may have no card assigned.
	for _, login := range []string{"ana", "ben", "cleo"} {
		require.NoError(t, srv.UpsertCredential(ctx, usecase.UpsertCredentialInput{
			UserID: uuid.New(),
			Name:   login,
			Login:  login,
		}))
	}

	users, err := srv.GetRfidUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDirectoryService_RemoveCredential(t *testing.T) {
	srv := createTestDirectoryService(t)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, srv.UpsertCredential(ctx, usecase.UpsertCredentialInput{
		UserID:       userID,
		Name:         "Ana Reyes",
		Login:        "ana",
		CardID:       "CARD1",
		RequiresRFID: true,
	}))

	require.NoError(t, srv.RemoveCredential(ctx, userID))
	require.ErrorIs(t, srv.RemoveCredential(ctx, userID), domainerrors.ErrCredentialNotFound)

	// The freed card can be assigned to another user.
	require.NoError(t, srv.UpsertCredential(ctx, usecase.UpsertCredentialInput{
		UserID: uuid.New(),
		Name:   "Ben Ortiz",
		Login:  "ben",
		CardID: "CARD1",
	}))
}

func TestDirectoryService_GetRfidUsers_FiltersAndOrders(t *testing.T) {
	srv := createTestDirectoryService(t)
	ctx := context.Background()

	seed := []usecase.UpsertCredentialInput{
		{UserID: uuid.New(), Name: "Cleo", Login: "cleo", CardID: "CARD9", RequiresRFID: true},
		{UserID: uuid.New(), Name: "Ana", Login: "ana", CardID: "CARD1", RequiresRFID: true},
		{UserID: uuid.New(), Name: "NoCard", Login: "nocard", RequiresRFID: true},
		{UserID: uuid.New(), Name: "OptedOut", Login: "out", CardID: "CARD5"},
	}
	for _, input := range seed {
		require.NoError(t, srv.UpsertCredential(ctx, input))
	}

	users, err := srv.GetRfidUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "CARD1", users[0].CardID)
	assert.Equal(t, "CARD9", users[1].CardID)
}
