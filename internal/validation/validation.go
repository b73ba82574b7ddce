package validation

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flatledger/flatledger/internal/domain"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns a ValidationError when any violation was recorded, nil otherwise.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &domain.ValidationError{Violations: v}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, maxLen int, v Violations) {
	if len(value) > maxLen {
		v[field] = "too_long"
	}
}

func IntRange(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

func DecimalRange(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v[field] = "out_of_range"
	}
}

// ParseID accepts only the canonical 8-4-4-4-12 hexadecimal UUID form,
// case-insensitive. Anything else is an InvalidFormatError; malformed ids are
// caller bugs and must be rejected before any store access.
func ParseID(field, value string) (uuid.UUID, error) {
	if len(value) != 36 {
		return uuid.Nil, &domain.InvalidFormatError{Field: field, Value: value}
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &domain.InvalidFormatError{Field: field, Value: value}
	}
	return id, nil
}
