package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flatledger/flatledger/internal/domain"
	"github.com/flatledger/flatledger/internal/models"
)

func TestPaymentTypeCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentTypeService(db, testLogger())
	ctx := context.Background()
	owner := uuid.New()
	flat := seedFlat(t, db, owner, "Apt 1")

	created, err := svc.Create(ctx, flat.ID.String(), owner.String(), CreatePaymentType{Name: "Rent", BaseAmount: decimal.RequireFromString("1500")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil || created.FlatID != flat.ID {
		t.Fatalf("unexpected payment type %+v", created)
	}
	if got := created.BaseAmount.StringFixed(2); got != "1500.00" {
		t.Fatalf("unexpected base amount %s", got)
	}

	if _, err := svc.Create(ctx, flat.ID.String(), owner.String(), CreatePaymentType{Name: "Utilities", BaseAmount: decimal.RequireFromString("500")}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	types, err := svc.ListForFlat(ctx, flat.ID.String(), owner.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("expected 2 payment types, got %d", len(types))
	}
}

// An owned flat with no payment types lists empty, not an error.
func TestPaymentTypeListEmptyWhenOwned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentTypeService(db, testLogger())
	owner := uuid.New()
	flat := seedFlat(t, db, owner, "Bare")

	types, err := svc.ListForFlat(context.Background(), flat.ID.String(), owner.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(types) != 0 {
		t.Fatalf("expected empty list, got %d", len(types))
	}
}

func TestPaymentTypeUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentTypeService(db, testLogger())
	ctx := context.Background()
	owner := uuid.New()
	flat := seedFlat(t, db, owner, "Apt 1")
	pt := seedPaymentType(t, db, flat.ID, "Rent", "1500")

	// Only the amount is provided; the name must survive.
	amount := decimal.RequireFromString("1650")
	updated, err := svc.Update(ctx, pt.ID.String(), owner.String(), UpdatePaymentType{BaseAmount: &amount})
	if err != nil {
		t.Fatalf("update amount: %v", err)
	}
	if updated.Name != "Rent" || updated.BaseAmount.StringFixed(2) != "1650.00" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	name := "Cold rent"
	updated, err = svc.Update(ctx, pt.ID.String(), owner.String(), UpdatePaymentType{Name: &name})
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != name || updated.BaseAmount.StringFixed(2) != "1650.00" {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestPaymentTypeValidationAtServiceSurface(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentTypeService(db, testLogger())
	ctx := context.Background()
	owner := uuid.New()
	flat := seedFlat(t, db, owner, "Apt 1")

	var ve *domain.ValidationError
	_, err := svc.Create(ctx, flat.ID.String(), owner.String(), CreatePaymentType{Name: "", BaseAmount: decimal.RequireFromString("10")})
	if !errors.As(err, &ve) || ve.Violations["name"] == "" {
		t.Fatalf("empty name: expected name violation, got %v", err)
	}

	_, err = svc.Create(ctx, flat.ID.String(), owner.String(), CreatePaymentType{Name: "Rent", BaseAmount: decimal.RequireFromString("1000000")})
	if !errors.As(err, &ve) || ve.Violations["base_amount"] == "" {
		t.Fatalf("amount 1000000: expected base_amount violation, got %v", err)
	}

	_, err = svc.Create(ctx, flat.ID.String(), owner.String(), CreatePaymentType{Name: "Rent", BaseAmount: decimal.RequireFromString("-0.01")})
	if !errors.As(err, &ve) || ve.Violations["base_amount"] == "" {
		t.Fatalf("negative amount: expected base_amount violation, got %v", err)
	}

	pt := seedPaymentType(t, db, flat.ID, "Rent", "1500")
	bad := decimal.RequireFromString("1000000")
	_, err = svc.Update(ctx, pt.ID.String(), owner.String(), UpdatePaymentType{BaseAmount: &bad})
	if !errors.As(err, &ve) || ve.Violations["base_amount"] == "" {
		t.Fatalf("update amount 1000000: expected base_amount violation, got %v", err)
	}

	// Rejected commands leave no rows behind.
	var count int64
	db.Model(&models.PaymentType{}).Where("base_amount = ?", bad).Count(&count)
	if count != 0 {
		t.Fatal("rejected update must not persist")
	}
}

func TestPaymentTypeOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentTypeService(db, testLogger())
	ctx := context.Background()
	owner := uuid.New()
	flat := seedFlat(t, db, owner, "Apt 1")
	pt := seedPaymentType(t, db, flat.ID, "Rent", "1500")
	stranger := uuid.NewString()

	if _, err := svc.ListForFlat(ctx, flat.ID.String(), stranger); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("stranger list: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ListForFlat(ctx, uuid.NewString(), owner.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing flat list: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, flat.ID.String(), stranger, CreatePaymentType{Name: "Hijack", BaseAmount: decimal.RequireFromString("1")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("stranger create: expected ErrNotFound, got %v", err)
	}
	name := "hijacked"
	if _, err := svc.Update(ctx, pt.ID.String(), stranger, UpdatePaymentType{Name: &name}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("stranger update: expected ErrNotFound, got %v", err)
	}

	var ife *domain.InvalidFormatError
	if _, err := svc.ListForFlat(ctx, "not-a-uuid", owner.String()); !errors.As(err, &ife) {
		t.Fatalf("malformed flat id: expected InvalidFormatError, got %v", err)
	}
	if _, err := svc.Update(ctx, pt.ID.String(), "42", UpdatePaymentType{Name: &name}); !errors.As(err, &ife) {
		t.Fatalf("malformed user id: expected InvalidFormatError, got %v", err)
	}

	// The template is untouched.
	fresh, err := svc.ListForFlat(ctx, flat.ID.String(), owner.String())
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(fresh) != 1 || fresh[0].Name != "Rent" {
		t.Fatalf("payment type must survive stranger attempts, got %+v", fresh)
	}
}
