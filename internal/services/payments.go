package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatledger/flatledger/internal/domain"
	"github.com/flatledger/flatledger/internal/models"
	"github.com/flatledger/flatledger/internal/policy"
	"github.com/flatledger/flatledger/internal/validation"
)

// PaymentWithTypeName joins a payment with its template's display name.
type PaymentWithTypeName struct {
	models.Payment
	PaymentTypeName string `json:"payment_type_name"`
}

// SkippedPayment identifies a payment type whose period was already generated.
type SkippedPayment struct {
	PaymentTypeID   uuid.UUID `json:"payment_type_id"`
	PaymentTypeName string    `json:"payment_type_name"`
}

// GenerateResult reports, per payment type, whether the requested period was
// created or skipped. A call where everything already existed succeeds with
// GeneratedCount zero and a full skip list.
type GenerateResult struct {
	GeneratedCount int                   `json:"generated_count"`
	Month          int                   `json:"month"`
	Year           int                   `json:"year"`
	Payments       []PaymentWithTypeName `json:"payments"`
	Skipped        []SkippedPayment      `json:"skipped,omitempty"`
}

// PaymentService handles payment listing, monthly generation, and the one-way
// unpaid -> paid transition.
type PaymentService struct {
	db  *gorm.DB
	own *policy.Resolver
	log *zap.Logger
}

func NewPaymentService(db *gorm.DB, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, own: policy.NewResolver(db), log: log}
}

// ListForFlat returns a flat's payments with optional period/paid filters,
// ordered year desc, month desc, newest first.
func (s *PaymentService) ListForFlat(ctx context.Context, flatID, userID string, filters PaymentFilters) ([]PaymentWithTypeName, error) {
	fid, err := validation.ParseID("flat_id", flatID)
	if err != nil {
		return nil, err
	}
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.own.Flat(ctx, fid, uid); err != nil {
		return nil, err
	}

	var types []models.PaymentType
	err = s.db.WithContext(ctx).
		Select("id", "name").
		Where("flat_id = ?", fid).
		Find(&types).Error
	if err != nil {
		return nil, s.storeErr("list payment types", err)
	}
	if len(types) == 0 {
		return []PaymentWithTypeName{}, nil
	}
	nameByType := make(map[uuid.UUID]string, len(types))
	typeIDs := make([]uuid.UUID, 0, len(types))
	for _, pt := range types {
		nameByType[pt.ID] = pt.Name
		typeIDs = append(typeIDs, pt.ID)
	}

	q := s.db.WithContext(ctx).Where("payment_type_id IN ?", typeIDs)
	if filters.Month != nil {
		q = q.Where("month = ?", *filters.Month)
	}
	if filters.Year != nil {
		q = q.Where("year = ?", *filters.Year)
	}
	if filters.IsPaid != nil {
		q = q.Where("is_paid = ?", *filters.IsPaid)
	}
	var payments []models.Payment
	err = q.Order("year desc").Order("month desc").Order("created_at desc").Find(&payments).Error
	if err != nil {
		return nil, s.storeErr("list payments", err)
	}

	out := make([]PaymentWithTypeName, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentWithTypeName{Payment: p, PaymentTypeName: nameByType[p.PaymentTypeID]})
	}
	return out, nil
}

// Generate creates one payment per payment type of the flat for the requested
// period, snapshotting each template's current base amount. Periods that
// already exist are skipped and reported; the insert of the remainder is one
// atomic batch. A concurrent generator losing the race to the store's unique
// constraint rolls the whole call back and observes ErrConflict, never a
// half-generated month.
func (s *PaymentService) Generate(ctx context.Context, flatID, userID string, cmd GeneratePayments) (*GenerateResult, error) {
	fid, err := validation.ParseID("flat_id", flatID)
	if err != nil {
		return nil, err
	}
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.own.Flat(ctx, fid, uid); err != nil {
		return nil, err
	}

	var types []models.PaymentType
	err = s.db.WithContext(ctx).
		Where("flat_id = ?", fid).
		Order("created_at desc").
		Find(&types).Error
	if err != nil {
		return nil, s.storeErr("load payment types", err)
	}
	if len(types) == 0 {
		return nil, domain.ErrNoPaymentTypes
	}

	s.log.Info("generating payments",
		zap.String("flat_id", flatID),
		zap.Int("month", cmd.Month),
		zap.Int("year", cmd.Year),
		zap.Int("payment_types", len(types)))

	result := &GenerateResult{Month: cmd.Month, Year: cmd.Year, Payments: []PaymentWithTypeName{}}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		typeIDs := make([]uuid.UUID, 0, len(types))
		for _, pt := range types {
			typeIDs = append(typeIDs, pt.ID)
		}
		var existing []models.Payment
		err := tx.Select("payment_type_id").
			Where("payment_type_id IN ? AND month = ? AND year = ?", typeIDs, cmd.Month, cmd.Year).
			Find(&existing).Error
		if err != nil {
			return &domain.StoreError{Op: "load existing payments", Err: err}
		}
		taken := make(map[uuid.UUID]bool, len(existing))
		for _, p := range existing {
			taken[p.PaymentTypeID] = true
		}

		var batch []models.Payment
		var created []*models.PaymentType
		for i := range types {
			pt := &types[i]
			if taken[pt.ID] {
				result.Skipped = append(result.Skipped, SkippedPayment{PaymentTypeID: pt.ID, PaymentTypeName: pt.Name})
				continue
			}
			batch = append(batch, models.Payment{
				PaymentTypeID: pt.ID,
				Amount:        pt.BaseAmount,
				Month:         cmd.Month,
				Year:          cmd.Year,
				IsPaid:        false,
			})
			created = append(created, pt)
		}
		if len(batch) == 0 {
			return nil
		}
		if err := tx.Create(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrConflict
			}
			return &domain.StoreError{Op: "insert payments", Err: err}
		}
		for i, p := range batch {
			result.Payments = append(result.Payments, PaymentWithTypeName{Payment: p, PaymentTypeName: created[i].Name})
		}
		result.GeneratedCount = len(batch)
		return nil
	})
	if err != nil {
		var se *domain.StoreError
		if errors.As(err, &se) {
			s.log.Error("store failure", zap.String("op", se.Op), zap.Error(se.Err))
		}
		return nil, err
	}

	s.log.Info("payments generated",
		zap.String("flat_id", flatID),
		zap.Int("created", result.GeneratedCount),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// MarkPaid transitions a payment from unpaid to paid, stamping PaidAt. The
// transition is one-way: a payment that is already paid keeps its original
// PaidAt and the call reports ErrAlreadyPaid.
func (s *PaymentService) MarkPaid(ctx context.Context, paymentID, userID string) (*models.Payment, error) {
	pid, err := validation.ParseID("payment_id", paymentID)
	if err != nil {
		return nil, err
	}
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	payment, err := s.own.Payment(ctx, pid, uid)
	if err != nil {
		return nil, err
	}
	if payment.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}

	s.log.Info("marking payment paid", zap.String("payment_id", paymentID))
	now := time.Now().UTC()
	// Guard the update on the stored state so a concurrent caller that won
	// the race cannot have its PaidAt re-stamped.
	res := s.db.WithContext(ctx).Model(payment).
		Where("is_paid = ?", false).
		Updates(map[string]any{"is_paid": true, "paid_at": now})
	if res.Error != nil {
		return nil, s.storeErr("mark payment paid", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrAlreadyPaid
	}
	payment.IsPaid = true
	payment.PaidAt = &now
	s.log.Info("payment marked paid", zap.String("payment_id", paymentID))
	return payment, nil
}

func (s *PaymentService) storeErr(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return &domain.StoreError{Op: op, Err: err}
}
