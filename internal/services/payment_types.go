package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatledger/flatledger/internal/domain"
	"github.com/flatledger/flatledger/internal/models"
	"github.com/flatledger/flatledger/internal/policy"
	"github.com/flatledger/flatledger/internal/validation"
)

// PaymentTypeService handles the recurring charge templates of a flat.
type PaymentTypeService struct {
	db  *gorm.DB
	own *policy.Resolver
	log *zap.Logger
}

func NewPaymentTypeService(db *gorm.DB, log *zap.Logger) *PaymentTypeService {
	return &PaymentTypeService{db: db, own: policy.NewResolver(db), log: log}
}

// ListForFlat returns a flat's payment types, newest first.
func (s *PaymentTypeService) ListForFlat(ctx context.Context, flatID, userID string) ([]models.PaymentType, error) {
	fid, err := validation.ParseID("flat_id", flatID)
	if err != nil {
		return nil, err
	}
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
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
		return nil, s.storeErr("list payment types", err)
	}
	return types, nil
}

func (s *PaymentTypeService) Create(ctx context.Context, flatID, userID string, cmd CreatePaymentType) (*models.PaymentType, error) {
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
	s.log.Info("creating payment type", zap.String("flat_id", flatID))
	pt := models.PaymentType{FlatID: fid, Name: cmd.Name, BaseAmount: cmd.BaseAmount}
	if err := s.db.WithContext(ctx).Create(&pt).Error; err != nil {
		return nil, s.storeErr("create payment type", err)
	}
	s.log.Info("payment type created", zap.String("payment_type_id", pt.ID.String()))
	return &pt, nil
}

func (s *PaymentTypeService) Update(ctx context.Context, paymentTypeID, userID string, cmd UpdatePaymentType) (*models.PaymentType, error) {
	ptID, err := validation.ParseID("payment_type_id", paymentTypeID)
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
	pt, err := s.own.PaymentType(ctx, ptID, uid)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.BaseAmount != nil {
		updates["base_amount"] = *cmd.BaseAmount
	}
	if len(updates) == 0 {
		return pt, nil
	}
	s.log.Info("updating payment type", zap.String("payment_type_id", paymentTypeID))
	if err := s.db.WithContext(ctx).Model(pt).Updates(updates).Error; err != nil {
		return nil, s.storeErr("update payment type", err)
	}
	s.log.Info("payment type updated", zap.String("payment_type_id", paymentTypeID))
	return pt, nil
}

func (s *PaymentTypeService) storeErr(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return &domain.StoreError{Op: op, Err: err}
}
