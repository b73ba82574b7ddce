package models

import (
	"testing"
	"time"
)

func TestPaymentDueDate(t *testing.T) {
	cases := []struct {
		month, year int
		want        time.Time
	}{
		{6, 2026, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{12, 2026, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{1, 1900, time.Date(1900, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		p := Payment{Month: c.month, Year: c.year}
		if got := p.DueDate(); !got.Equal(c.want) {
			t.Errorf("DueDate(%d/%d) = %v, want %v", c.month, c.year, got, c.want)
		}
	}
}
