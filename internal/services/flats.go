package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatledger/flatledger/internal/domain"
	"github.com/flatledger/flatledger/internal/models"
	"github.com/flatledger/flatledger/internal/policy"
	"github.com/flatledger/flatledger/internal/validation"
)

// DashboardFlat is a flat joined with its outstanding debt (sum of unpaid
// payment amounts across all of its payment types).
type DashboardFlat struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Address   string          `json:"address"`
	Debt      decimal.Decimal `json:"debt"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FlatService handles flat CRUD and the dashboard debt aggregation. Ids
// arrive as opaque strings from the caller and are format-checked before any
// store access.
type FlatService struct {
	db  *gorm.DB
	own *policy.Resolver
	log *zap.Logger
}

func NewFlatService(db *gorm.DB, log *zap.Logger) *FlatService {
	return &FlatService{db: db, own: policy.NewResolver(db), log: log}
}

// List returns all flats owned by the user, newest first.
func (s *FlatService) List(ctx context.Context, userID string) ([]models.Flat, error) {
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	var flats []models.Flat
	err = s.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at desc").
		Find(&flats).Error
	if err != nil {
		return nil, s.storeErr("list flats", err)
	}
	return flats, nil
}

// Get returns one flat, ownership-enforced.
func (s *FlatService) Get(ctx context.Context, flatID, userID string) (*models.Flat, error) {
	fid, err := validation.ParseID("flat_id", flatID)
	if err != nil {
		return nil, err
	}
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	return s.own.Flat(ctx, fid, uid)
}

func (s *FlatService) Create(ctx context.Context, userID string, cmd CreateFlat) (*models.Flat, error) {
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	s.log.Info("creating flat", zap.String("user_id", userID))
	flat := models.Flat{UserID: uid, Name: cmd.Name, Address: cmd.Address}
	if err := s.db.WithContext(ctx).Create(&flat).Error; err != nil {
		return nil, s.storeErr("create flat", err)
	}
	s.log.Info("flat created", zap.String("flat_id", flat.ID.String()))
	return &flat, nil
}

func (s *FlatService) Update(ctx context.Context, flatID, userID string, cmd UpdateFlat) (*models.Flat, error) {
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
	flat, err := s.own.Flat(ctx, fid, uid)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if len(updates) == 0 {
		return flat, nil
	}
	s.log.Info("updating flat", zap.String("flat_id", flatID))
	if err := s.db.WithContext(ctx).Model(flat).Updates(updates).Error; err != nil {
		return nil, s.storeErr("update flat", err)
	}
	s.log.Info("flat updated", zap.String("flat_id", flatID))
	return flat, nil
}

// Delete removes a flat; the store cascades to payment types and payments.
func (s *FlatService) Delete(ctx context.Context, flatID, userID string) error {
	fid, err := validation.ParseID("flat_id", flatID)
	if err != nil {
		return err
	}
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return err
	}
	s.log.Info("deleting flat", zap.String("flat_id", flatID))
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", fid, uid).
		Delete(&models.Flat{})
	if res.Error != nil {
		return s.storeErr("delete flat", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	s.log.Info("flat deleted", zap.String("flat_id", flatID))
	return nil
}

// Dashboard computes per-flat debt for all of a user's flats. It issues one
// query per entity type (flats, payment types, unpaid payments) and joins
// them in memory, never one query per flat. Flats with no payment types or no
// unpaid payments report a debt of exactly zero.
func (s *FlatService) Dashboard(ctx context.Context, userID string) ([]DashboardFlat, error) {
	uid, err := validation.ParseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	var flats []models.Flat
	err = s.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at desc").
		Find(&flats).Error
	if err != nil {
		return nil, s.storeErr("dashboard flats", err)
	}
	if len(flats) == 0 {
		return []DashboardFlat{}, nil
	}

	flatIDs := make([]uuid.UUID, 0, len(flats))
	for _, f := range flats {
		flatIDs = append(flatIDs, f.ID)
	}

	var paymentTypes []models.PaymentType
	err = s.db.WithContext(ctx).
		Select("id", "flat_id").
		Where("flat_id IN ?", flatIDs).
		Find(&paymentTypes).Error
	if err != nil {
		return nil, s.storeErr("dashboard payment types", err)
	}

	debtByFlat := map[uuid.UUID]decimal.Decimal{}
	if len(paymentTypes) > 0 {
		typeToFlat := make(map[uuid.UUID]uuid.UUID, len(paymentTypes))
		typeIDs := make([]uuid.UUID, 0, len(paymentTypes))
		for _, pt := range paymentTypes {
			typeToFlat[pt.ID] = pt.FlatID
			typeIDs = append(typeIDs, pt.ID)
		}

		var unpaid []models.Payment
		err = s.db.WithContext(ctx).
			Select("payment_type_id", "amount").
			Where("payment_type_id IN ? AND is_paid = ?", typeIDs, false).
			Find(&unpaid).Error
		if err != nil {
			return nil, s.storeErr("dashboard payments", err)
		}
		for _, p := range unpaid {
			flatID := typeToFlat[p.PaymentTypeID]
			debtByFlat[flatID] = debtByFlat[flatID].Add(p.Amount)
		}
	}

	out := make([]DashboardFlat, 0, len(flats))
	for _, f := range flats {
		debt, ok := debtByFlat[f.ID]
		if !ok {
			debt = decimal.Zero
		}
		out = append(out, DashboardFlat{
			ID:        f.ID,
			Name:      f.Name,
			Address:   f.Address,
			Debt:      debt,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		})
	}
	return out, nil
}

func (s *FlatService) storeErr(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return &domain.StoreError{Op: op, Err: err}
}
