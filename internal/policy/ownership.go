package policy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flatledger/flatledger/internal/domain"
	"github.com/flatledger/flatledger/internal/models"
)

// Resolver confirms the ownership chain Payment -> PaymentType -> Flat -> User
// before an entity leaves the store. An entity that exists under another user
// resolves exactly like one that does not exist (domain.ErrNotFound), so a
// caller can never probe for cross-tenant existence. All methods are read-only.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Flat resolves a flat owned by userID.
func (r *Resolver) Flat(ctx context.Context, flatID, userID uuid.UUID) (*models.Flat, error) {
	var flat models.Flat
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", flatID, userID).
		First(&flat).Error
	if err != nil {
		return nil, resolveErr("resolve flat", err)
	}
	return &flat, nil
}

// PaymentType resolves a payment type whose parent flat is owned by userID.
func (r *Resolver) PaymentType(ctx context.Context, paymentTypeID, userID uuid.UUID) (*models.PaymentType, error) {
	var pt models.PaymentType
	err := r.db.WithContext(ctx).
		Joins("JOIN flats ON flats.id = payment_types.flat_id").
		Where("payment_types.id = ? AND flats.user_id = ?", paymentTypeID, userID).
		First(&pt).Error
	if err != nil {
		return nil, resolveErr("resolve payment type", err)
	}
	return &pt, nil
}

// Payment resolves a payment through the full chain up to userID.
func (r *Resolver) Payment(ctx context.Context, paymentID, userID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN payment_types ON payment_types.id = payments.payment_type_id").
		Joins("JOIN flats ON flats.id = payment_types.flat_id").
		Where("payments.id = ? AND flats.user_id = ?", paymentID, userID).
		First(&payment).Error
	if err != nil {
		return nil, resolveErr("resolve payment", err)
	}
	return &payment, nil
}

// resolveErr keeps store failures distinct from not-found; the two must never
// be conflated.
func resolveErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return &domain.StoreError{Op: op, Err: err}
}
