package services

import (
	"github.com/shopspring/decimal"

	"github.com/flatledger/flatledger/internal/validation"
)

var maxBaseAmount = decimal.RequireFromString("999999.99")

// CreateFlat creates a new flat for the authenticated user.
type CreateFlat struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (c CreateFlat) Validate() error {
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	validation.MaxLen("name", c.Name, 100, v)
	validation.Required("address", c.Address, v)
	validation.MaxLen("address", c.Address, 200, v)
	return v.Err()
}

// UpdateFlat carries a partial update; nil fields are left untouched.
type UpdateFlat struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

func (c UpdateFlat) Validate() error {
	v := validation.Violations{}
	if c.Name != nil {
		validation.Required("name", *c.Name, v)
		validation.MaxLen("name", *c.Name, 100, v)
	}
	if c.Address != nil {
		validation.Required("address", *c.Address, v)
		validation.MaxLen("address", *c.Address, 200, v)
	}
	return v.Err()
}

type CreatePaymentType struct {
	Name       string          `json:"name"`
	BaseAmount decimal.Decimal `json:"base_amount"`
}

func (c CreatePaymentType) Validate() error {
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	validation.MaxLen("name", c.Name, 100, v)
	validation.DecimalRange("base_amount", c.BaseAmount, decimal.Zero, maxBaseAmount, v)
	return v.Err()
}

type UpdatePaymentType struct {
	Name       *string          `json:"name"`
	BaseAmount *decimal.Decimal `json:"base_amount"`
}

func (c UpdatePaymentType) Validate() error {
	v := validation.Violations{}
	if c.Name != nil {
		validation.Required("name", *c.Name, v)
		validation.MaxLen("name", *c.Name, 100, v)
	}
	if c.BaseAmount != nil {
		validation.DecimalRange("base_amount", *c.BaseAmount, decimal.Zero, maxBaseAmount, v)
	}
	return v.Err()
}

// GeneratePayments requests one payment per payment type for a period.
type GeneratePayments struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (c GeneratePayments) Validate() error {
	v := validation.Violations{}
	validation.IntRange("month", c.Month, 1, 12, v)
	validation.IntRange("year", c.Year, 1900, 2100, v)
	return v.Err()
}

// PaymentFilters narrows a payment listing; nil fields match everything.
type PaymentFilters struct {
	Month  *int  `json:"month"`
	Year   *int  `json:"year"`
	IsPaid *bool `json:"is_paid"`
}

func (f PaymentFilters) Validate() error {
	v := validation.Violations{}
	if f.Month != nil {
		validation.IntRange("month", *f.Month, 1, 12, v)
	}
	if f.Year != nil {
		validation.IntRange("year", *f.Year, 1900, 2100, v)
	}
	return v.Err()
}
