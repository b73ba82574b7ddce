package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flat is a rental unit owned by exactly one user.
type Flat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `gorm:"not null" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PaymentTypes []PaymentType `gorm:"foreignKey:FlatID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Flat) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
