package impl

import (
	"context"
	"log/slog"
	"time"

	"posauth/internal/domain/entity"
	domainerrors "posauth/internal/domain/errors"
	"posauth/internal/domain/repository"
	"posauth/internal/errors"
	"posauth/internal/usecase"

	"github.com/google/uuid"
)

// directoryService implements the DirectoryUsecase interface.
type directoryService struct {
	txManager   repository.TransactionManager
	credentials repository.CredentialRepository
	logger      *slog.Logger
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(
	txManager repository.TransactionManager,
	credentials repository.CredentialRepository,
	logger *slog.Logger,
) usecase.DirectoryUsecase {
	return &directoryService{
		txManager:   txManager,
		credentials: credentials,
		logger:      logger,
	}
}

// UpsertCredential creates or replaces a user's credential. The card-id
// uniqueness check and the write run inside one transaction so a conflicting
// credential is never partially persisted.
func (srv *directoryService) UpsertCredential(ctx context.Context, input usecase.UpsertCredentialInput) error {
	srv.logger.Debug("Upserting credential",
		slog.Any("user_id", input.UserID),
		slog.Bool("has_card", input.CardID != ""),
	)

	if len(input.CardID) > entity.MaxCardIDLength {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("card id exceeds 64 characters"))
	}

	cred := &entity.Credential{
		UserID:             input.UserID,
		Name:               input.Name,
		Login:              input.Login,
		CardID:             input.CardID,
		PIN:                input.PIN,
		RequiresRFID:       input.RequiresRFID,
		RequirePINWithCard: input.RequirePINWithCard,
		UpdatedAt:          time.Now(),
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credRepo := repoFactory.CredentialRepo()

		// 1. Resolve the conflicting holder up front so the rejection can
		// name them. Empty card ids are never uniqueness-compared.
		if cred.HasCard() {
			existing, err := credRepo.FindByCard(ctx, cred.CardID)
			if err != nil && !errors.Is(err, repository.ErrCredentialNotFound) {
				return errors.Wrap(err, "failed to check card uniqueness")
			}
			if existing != nil && existing.UserID != cred.UserID {
				return &repository.DuplicateCardError{
					CardID:            cred.CardID,
					ConflictingUserID: existing.UserID,
					ConflictingUser:   existing.Name,
				}
			}
		}

		// 2. Write. The repository enforces uniqueness again at the storage
		// level, which closes the race between concurrent upserts.
		return credRepo.Upsert(ctx, cred)
	})

	if err != nil {
		var dup *repository.DuplicateCardError
		if errors.As(err, &dup) {
			srv.logger.Warn("Rejected duplicate card assignment",
				slog.String("card_id", dup.CardID),
				slog.String("conflicting_user", dup.ConflictingUser),
			)

			return errors.WithStack(domainerrors.ErrDuplicateCard.WithDetails(dup.Error()))
		}

		srv.logger.Error("Failed to upsert credential", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return errors.Wrap(err, "failed to upsert credential")
	}

	srv.logger.Info("Credential upserted", slog.Any("user_id", input.UserID))

	return nil
}

// RemoveCredential deletes a user's credential.
func (srv *directoryService) RemoveCredential(ctx context.Context, userID uuid.UUID) error {
	srv.logger.Info("Removing credential", slog.Any("user_id", userID))

	if err := srv.credentials.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return errors.WithStack(domainerrors.ErrCredentialNotFound)
		}

		return errors.Wrap(err, "failed to remove credential")
	}

	return nil
}

// GetRfidUsers lists all users that participate in RFID authentication.
func (srv *directoryService) GetRfidUsers(ctx context.Context) ([]*entity.RfidUser, error) {
	users, err := srv.credentials.ListRfidUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list RFID users")
	}

	return users, nil
}
