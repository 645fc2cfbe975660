package model

import (
	"time"

	"github.com/google/uuid"
)

// CredentialModel mirrors the 'pos_credentials' table. The card id is stored
// as a nullable column with a unique index: NULL rows never collide, so users
// without a card are exempt from the uniqueness constraint.
type CredentialModel struct {
	UserID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Name               string    `gorm:"type:varchar(255);not null"`
	Login              string    `gorm:"type:varchar(255);not null"`
	CardID             *string   `gorm:"type:varchar(64);uniqueIndex:idx_pos_credentials_card_id"`
	PIN                string    `gorm:"type:varchar(64)"`
	RequiresRFID       bool      `gorm:"not null;default:false"`
	RequirePINWithCard bool      `gorm:"not null;default:true"`
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "pos_credentials"
}
