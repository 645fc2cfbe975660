// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	domainerrors "posauth/internal/domain/errors"
	"posauth/internal/domain/repository"
	"posauth/internal/domain/service"
	"posauth/internal/usecase"

	"posauth/internal/domain/entity"
	"posauth/internal/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	credentials repository.CredentialRepository
	audit       service.AuditSink
	logger      *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	credentials repository.CredentialRepository,
	audit service.AuditSink,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		credentials: credentials,
		audit:       audit,
		logger:      logger,
	}
}

// Authenticate verifies the presented card id and optional PIN against the
// credential registry.
//
// PIN enforcement is keyed off the credential's own configuration and the
// presence of a stored PIN, never off terminal policy: a credential that
// demands the card+PIN combination but has no PIN set authenticates on the
// card alone.
func (srv *authService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*entity.Identity, error) {
	srv.logger.Debug("Authentication attempt",
		slog.String("terminal_id", input.TerminalID),
		slog.String("card_id", input.CardID),
		slog.Bool("pin_supplied", input.PIN != ""),
	)

	if input.CardID == "" {
		srv.emit(ctx, input, service.AuditOutcomeCardUnknown, nil)

		return nil, errors.WithStack(domainerrors.ErrCardNotFound)
	}

	cred, err := srv.credentials.FindByCard(ctx, input.CardID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			srv.logger.Warn("No credential for presented card", slog.String("card_id", input.CardID))
			srv.emit(ctx, input, service.AuditOutcomeCardUnknown, nil)

			return nil, errors.WithStack(domainerrors.ErrCardNotFound)
		}

		return nil, errors.Wrap(err, "failed to look up card")
	}

	if cred.PINEnforced() && !pinMatches(input.PIN, cred.PIN) {
		srv.logger.Warn("PIN required but missing or incorrect",
			slog.String("card_id", input.CardID),
			slog.Any("user_id", cred.UserID),
		)
		srv.emit(ctx, input, service.AuditOutcomePINRejected, nil)

		return nil, errors.WithStack(domainerrors.ErrPINRequired)
	}

	srv.emit(ctx, input, service.AuditOutcomeSuccess, cred)
	srv.logger.Info("Authentication successful",
		slog.Any("user_id", cred.UserID),
		slog.String("terminal_id", input.TerminalID),
	)

	return &entity.Identity{
		UserID: cred.UserID,
		Name:   cred.Name,
		Login:  cred.Login,
		CardID: cred.CardID,
		PIN:    cred.PIN,
	}, nil
}

// emit records the attempt in the audit trail. The sink contract guarantees
// emission can never fail or block the authentication decision.
func (srv *authService) emit(ctx context.Context, input usecase.AuthenticateInput, outcome string, cred *entity.Credential) {
	entry := service.AuditEntry{
		Time:        time.Now(),
		TerminalID:  input.TerminalID,
		CardID:      input.CardID,
		PINSupplied: input.PIN != "",
		Outcome:     outcome,
	}
	if cred != nil {
		userID := cred.UserID
		entry.UserID = &userID
	}

	srv.audit.Record(ctx, entry)
}

// pinMatches compares the supplied PIN with the stored one by exact value,
// without normalization. Constant-time comparison avoids a trivial timing
// side channel; an absent PIN never matches.
func pinMatches(supplied, stored string) bool {
	if supplied == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}
