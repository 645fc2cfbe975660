package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"posauth/internal/domain/entity"
	domainerrors "posauth/internal/domain/errors"
	"posauth/internal/domain/repository"
	"posauth/internal/domain/service"
	"posauth/internal/infra/persistence/memory"
	"posauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records audit entries for assertions.
type captureSink struct {
	mu      sync.Mutex
	entries []service.AuditEntry
}

func (s *captureSink) Record(_ context.Context, entry service.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *captureSink) last(t *testing.T) service.AuditEntry {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.entries)

	return s.entries[len(s.entries)-1]
}

// authFixtures holds all test dependencies for authenticator tests.
type authFixtures struct {
	service     usecase.AuthUsecase
	credentials repository.CredentialRepository
	audit       *captureSink
}

func createTestAuthService(t *testing.T) authFixtures {
	t.Helper()

	credentials := memory.NewCredentialRepository()
	sink := &captureSink{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return authFixtures{
		service:     NewAuthService(credentials, sink, logger),
		credentials: credentials,
		audit:       sink,
	}
}

func seedCredential(t *testing.T, fx authFixtures, cred entity.Credential) entity.Credential {
	t.Helper()

	if cred.UserID == uuid.Nil {
		cred.UserID = uuid.New()
	}
	cred.UpdatedAt = time.Now()
	require.NoError(t, fx.credentials.Upsert(context.Background(), &cred))

	return cred
}

func TestAuthService_Authenticate_PinGating(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	cred := seedCredential(t, fx, entity.Credential{
		Name:               "Ana Reyes",
		Login:              "ana",
		CardID:             "CARD1",
		PIN:                "1234",
		RequiresRFID:       true,
		RequirePINWithCard: true,
	})

	// Missing PIN is rejected.
	_, err := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD1"})
	require.ErrorIs(t, err, domainerrors.ErrPINRequired)
	assert.Equal(t, service.AuditOutcomePINRejected, fx.audit.last(t).Outcome)
	assert.False(t, fx.audit.last(t).PINSupplied)

	// Wrong PIN is rejected.
	_, err = fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD1", PIN: "0000"})
	require.ErrorIs(t, err, domainerrors.ErrPINRequired)
	assert.True(t, fx.audit.last(t).PINSupplied)

	// Correct PIN succeeds and echoes the stored material.
	identity, err := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD1", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, cred.UserID, identity.UserID)
	assert.Equal(t, "Ana Reyes", identity.Name)
	assert.Equal(t, "ana", identity.Login)
	assert.Equal(t, "CARD1", identity.CardID)
	assert.Equal(t, "1234", identity.PIN)

	entry := fx.audit.last(t)
	assert.Equal(t, service.AuditOutcomeSuccess, entry.Outcome)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, cred.UserID, *entry.UserID)
}

func TestAuthService_Authenticate_NoPinSetBypassesCombination(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	// The combination flag without a stored PIN authenticates on card alone.
	cred := seedCredential(t, fx, entity.Credential{
		Name:               "Ben Ortiz",
		Login:              "ben",
		CardID:             "CARD2",
		RequiresRFID:       true,
		RequirePINWithCard: true,
	})

	identity, err := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD2"})
	require.NoError(t, err)
	assert.Equal(t, cred.UserID, identity.UserID)
	assert.Empty(t, identity.PIN)
}

func TestAuthService_Authenticate_PinIgnoredWhenNotEnforced(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	// A stored PIN without the combination flag is not checked: a wrong
	// supplied PIN does not deny.
	seedCredential(t, fx, entity.Credential{
		Name:   "Cleo Brant",
		Login:  "cleo",
		CardID: "CARD3",
		PIN:    "9999",
	})

	_, err := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD3", PIN: "0000"})
	require.NoError(t, err)
}

func TestAuthService_Authenticate_UnknownCard(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "UNKNOWN"})
	require.ErrorIs(t, err, domainerrors.ErrCardNotFound)

	// Supplying a PIN never rescues an unregistered card.
	_, err = fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "UNKNOWN", PIN: "1234"})
	require.ErrorIs(t, err, domainerrors.ErrCardNotFound)
	assert.Equal(t, service.AuditOutcomeCardUnknown, fx.audit.last(t).Outcome)
}

func TestAuthService_Authenticate_EmptyCardRejectedImmediately(t *testing.T) {
	fx := createTestAuthService(t)

	_, err := fx.service.Authenticate(context.Background(), usecase.AuthenticateInput{PIN: "1234"})
	require.ErrorIs(t, err, domainerrors.ErrCardNotFound)
}

func TestAuthService_Authenticate_Deterministic(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	seedCredential(t, fx, entity.Credential{
		Name:               "Dara Quinn",
		Login:              "dara",
		CardID:             "CARD4",
		PIN:                "4321",
		RequirePINWithCard: true,
	})

	// Same registry state and inputs yield the same result.
	first, err1 := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD4", PIN: "4321"})
	second, err2 := fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD4", PIN: "4321"})
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)

	_, err1 = fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD4"})
	_, err2 = fx.service.Authenticate(ctx, usecase.AuthenticateInput{CardID: "CARD4"})
	assert.ErrorIs(t, err1, domainerrors.ErrPINRequired)
	assert.ErrorIs(t, err2, domainerrors.ErrPINRequired)
}
