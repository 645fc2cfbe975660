package postgres

import (
	"context"

	"posauth/internal/domain/entity"
	domainerrors "posauth/internal/domain/errors"
	"posauth/internal/domain/repository"
	"posauth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements the domain CredentialRepository interface.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// FindByCard retrieves the credential bound to the given card id.
func (repo *credentialRepository) FindByCard(ctx context.Context, cardID string) (*entity.Credential, error) {
	if cardID == "" {
		return nil, repository.ErrCredentialNotFound
	}

	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		First(&credM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toCredentialDomain(&credM), nil
}

// FindByUser retrieves the credential of a specific user.
func (repo *credentialRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toCredentialDomain(&credM), nil
}

// Upsert creates or replaces the credential for cred.UserID. The unique index
// on card_id is the storage-level backstop for the uniqueness invariant: a
// conflicting insert fails atomically before any state changes.
func (repo *credentialRepository) Upsert(ctx context.Context, cred *entity.Credential) error {
	credM := fromCredentialDomain(cred)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(credM).Error

	if err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return errors.WithStack(&repository.DuplicateCardError{CardID: cred.CardID})
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrCredentialUpdateFailed.WrapMessage("missing required credential information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert credential")
	}

	cred.UpdatedAt = credM.UpdatedAt

	return nil
}

// Delete removes the credential of a user.
func (repo *credentialRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CredentialModel{})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	// If no rows were affected, the credential was not found.
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

// ListRfidUsers returns every credential with a card and the requires-RFID
// flag, ordered by card id so the listing is deterministic.
func (repo *credentialRepository) ListRfidUsers(ctx context.Context) ([]*entity.RfidUser, error) {
	var credMs []model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("card_id IS NOT NULL AND requires_rfid = ?", true).
		Order("card_id").
		Find(&credMs).Error

	if err != nil {
		return nil, errors.WithStack(err)
	}

	users := make([]*entity.RfidUser, 0, len(credMs))
	for i := range credMs {
		cred := toCredentialDomain(&credMs[i])
		users = append(users, &entity.RfidUser{
			UserID:             cred.UserID,
			Name:               cred.Name,
			CardID:             cred.CardID,
			RequirePINWithCard: cred.RequirePINWithCard,
		})
	}

	return users, nil
}

// fromCredentialDomain maps a domain credential to its persistence model.
// An empty card id becomes NULL so it is exempt from the unique index.
func fromCredentialDomain(cred *entity.Credential) *model.CredentialModel {
	var cardID *string
	if cred.HasCard() {
		value := cred.CardID
		cardID = &value
	}

	return &model.CredentialModel{
		UserID:             cred.UserID,
		Name:               cred.Name,
		Login:              cred.Login,
		CardID:             cardID,
		PIN:                cred.PIN,
		RequiresRFID:       cred.RequiresRFID,
		RequirePINWithCard: cred.RequirePINWithCard,
		UpdatedAt:          cred.UpdatedAt,
	}
}

// toCredentialDomain maps a persistence model to the domain credential.
func toCredentialDomain(credM *model.CredentialModel) *entity.Credential {
	cardID := ""
	if credM.CardID != nil {
		cardID = *credM.CardID
	}

	return &entity.Credential{
		UserID:             credM.UserID,
		Name:               credM.Name,
		Login:              credM.Login,
		CardID:             cardID,
		PIN:                credM.PIN,
		RequiresRFID:       credM.RequiresRFID,
		RequirePINWithCard: credM.RequirePINWithCard,
		UpdatedAt:          credM.UpdatedAt,
	}
}
