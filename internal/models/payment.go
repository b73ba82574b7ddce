package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is one monthly instance of a payment type. Amount is a snapshot of the
// template's base amount at generation time and does not track later template edits.
// At most one payment exists per (payment_type_id, month, year); the unique index
// is what arbitrates concurrent generation for the same period.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payments_period" json:"payment_type_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Month         int             `gorm:"not null;uniqueIndex:idx_payments_period" json:"month"`
	Year          int             `gorm:"not null;uniqueIndex:idx_payments_period" json:"year"`
	IsPaid        bool            `gorm:"not null;default:false" json:"is_paid"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DueDate is the first day of the month following the payment's period, UTC.
// A payment is considered overdue once its month has fully passed.
func (p *Payment) DueDate() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
