// Package model holds the GORM persistence models, kept separate from the
// pure domain entities.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via
// uuid_generate_v4(). Deletion is a hard delete, so there is no DeletedAt.
type AccountModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email             string    `gorm:"type:varchar(200);uniqueIndex;not null"`
	Name              string    `gorm:"type:varchar(200);not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	Salt              string    `gorm:"type:varchar(255);not null"`
	Role              string    `gorm:"type:varchar(20);not null;default:user"`
	Status            bool      `gorm:"not null;default:true"`
	ConfirmationToken *string   `gorm:"type:varchar(64);uniqueIndex"`
	RecoverToken      *string   `gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
