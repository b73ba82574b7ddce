package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentType is a recurring charge template scoped to one flat (e.g. "Rent").
// BaseAmount is the current template amount; generated payments snapshot it.
type PaymentType struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FlatID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"flat_id"`
	Name       string          `gorm:"not null" json:"name"`
	BaseAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Payments []Payment `gorm:"foreignKey:PaymentTypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (pt *PaymentType) BeforeCreate(_ *gorm.DB) error {
	if pt.ID == uuid.Nil {
		pt.ID = uuid.New()
	}
	return nil
}
