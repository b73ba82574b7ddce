package view

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flatledger/flatledger/internal/models"
	"github.com/flatledger/flatledger/internal/services"
)

// Pure presentation shaping. Nothing in this package touches the store; the
// overdue/editability policy lives here and nowhere else.

type PaymentView struct {
	ID              uuid.UUID       `json:"id"`
	PaymentTypeID   uuid.UUID       `json:"payment_type_id"`
	PaymentTypeName string          `json:"payment_type_name"`
	Amount          decimal.Decimal `json:"amount"`
	DueDate         time.Time       `json:"due_date"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at"`
	CanEdit         bool            `json:"can_edit"`
	IsOverdue       bool            `json:"is_overdue"`
}

// ToPaymentView derives the display flags for one payment. A paid payment is
// never overdue, no matter how late it was settled.
func ToPaymentView(p services.PaymentWithTypeName, now time.Time) PaymentView {
	due := p.DueDate()
	return PaymentView{
		ID:              p.ID,
		PaymentTypeID:   p.PaymentTypeID,
		PaymentTypeName: p.PaymentTypeName,
		Amount:          p.Amount,
		DueDate:         due,
		Month:           p.Month,
		Year:            p.Year,
		IsPaid:          p.IsPaid,
		PaidAt:          p.PaidAt,
		CanEdit:         !p.IsPaid,
		IsOverdue:       !p.IsPaid && due.Before(now),
	}
}

type PaymentTypeView struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func ToPaymentTypeView(pt models.PaymentType) PaymentTypeView {
	return PaymentTypeView{
		ID:         pt.ID,
		Name:       pt.Name,
		BaseAmount: pt.BaseAmount,
		CreatedAt:  pt.CreatedAt,
		UpdatedAt:  pt.UpdatedAt,
	}
}

type FlatStatsView struct {
	TotalDebt            decimal.Decimal `json:"total_debt"`
	PaymentTypesCount    int             `json:"payment_types_count"`
	PendingPaymentsCount int             `json:"pending_payments_count"`
}

// FlatStats sums unpaid payment amounts and counts pending work for a flat.
func FlatStats(payments []services.PaymentWithTypeName, paymentTypes []models.PaymentType) FlatStatsView {
	stats := FlatStatsView{TotalDebt: decimal.Zero, PaymentTypesCount: len(paymentTypes)}
	for _, p := range payments {
		if p.IsPaid {
			continue
		}
		stats.TotalDebt = stats.TotalDebt.Add(p.Amount)
		stats.PendingPaymentsCount++
	}
	return stats
}

type FlatDetailView struct {
	Flat         models.Flat       `json:"flat"`
	Stats        FlatStatsView     `json:"stats"`
	PaymentTypes []PaymentTypeView `json:"payment_types"`
	Payments     []PaymentView     `json:"payments"`
}

func ToFlatDetail(flat models.Flat, paymentTypes []models.PaymentType, payments []services.PaymentWithTypeName, now time.Time) FlatDetailView {
	detail := FlatDetailView{
		Flat:         flat,
		Stats:        FlatStats(payments, paymentTypes),
		PaymentTypes: make([]PaymentTypeView, 0, len(paymentTypes)),
		Payments:     make([]PaymentView, 0, len(payments)),
	}
	for _, pt := range paymentTypes {
		detail.PaymentTypes = append(detail.PaymentTypes, ToPaymentTypeView(pt))
	}
	for _, p := range payments {
		detail.Payments = append(detail.Payments, ToPaymentView(p, now))
	}
	return detail
}

type FlatCardView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Debt          decimal.Decimal `json:"debt"`
	FormattedDebt string          `json:"formatted_debt"`
	Status        string          `json:"status"`
	DetailsURL    string          `json:"details_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToFlatCardView shapes a flat for the list view. Debt is not computed here:
// the list endpoint has no aggregator data, only the dashboard does. The card
// therefore always carries zero debt; changing that needs product sign-off.
func ToFlatCardView(flat models.Flat) FlatCardView {
	debt := decimal.Zero
	return FlatCardView{
		ID:            flat.ID,
		Name:          flat.Name,
		Address:       flat.Address,
		Debt:          debt,
		FormattedDebt: FormatCurrency(debt),
		Status:        "ok",
		DetailsURL:    "/flats/" + flat.ID.String(),
		CreatedAt:     flat.CreatedAt,
		UpdatedAt:     flat.UpdatedAt,
	}
}

// PaymentStatus reduces a payment view to one of "paid", "overdue", "pending".
func PaymentStatus(p PaymentView) string {
	if p.IsPaid {
		return "paid"
	}
	if p.IsOverdue {
		return "overdue"
	}
	return "pending"
}
