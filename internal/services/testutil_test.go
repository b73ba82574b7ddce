package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flatledger/flatledger/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := db.AutoMigrate(&models.Flat{}, &models.PaymentType{}, &models.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger() *zap.Logger { return zap.NewNop() }

func seedFlat(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) models.Flat {
	t.Helper()
	flat := models.Flat{UserID: userID, Name: name, Address: name + " address"}
	if err := db.Create(&flat).Error; err != nil {
		t.Fatalf("seed flat: %v", err)
	}
	return flat
}

func seedPaymentType(t *testing.T, db *gorm.DB, flatID uuid.UUID, name, amount string) models.PaymentType {
	t.Helper()
	pt := models.PaymentType{FlatID: flatID, Name: name, BaseAmount: decimal.RequireFromString(amount)}
	if err := db.Create(&pt).Error; err != nil {
		t.Fatalf("seed payment type: %v", err)
	}
	return pt
}

func seedPayment(t *testing.T, db *gorm.DB, ptID uuid.UUID, amount string, month, year int, paid bool) models.Payment {
	t.Helper()
	p := models.Payment{PaymentTypeID: ptID, Amount: decimal.RequireFromString(amount), Month: month, Year: year, IsPaid: paid}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func countPayments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Payment{}).Count(&n).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	return n
}
