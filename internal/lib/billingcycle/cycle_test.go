package billingcycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   Cycle
	}{
		{name: "monthly plan amount", amount: 29.90, want: Monthly},
		{name: "just below threshold", amount: 199.99, want: Monthly},
		{name: "exactly at threshold", amount: 200.00, want: Yearly},
		{name: "yearly plan amount", amount: 299.90, want: Yearly},
		{name: "zero amount", amount: 0, want: Monthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.amount))
		})
	}
}

func TestAdvance(t *testing.T) {
	from := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC), Advance(from, Monthly))
	assert.Equal(t, time.Date(2027, time.March, 15, 12, 0, 0, 0, time.UTC), Advance(from, Yearly))
}

func TestAdvance_MonthEndOverflow(t *testing.T) {
	// 31 января + месяц нормализуется в начало марта
	from := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), Advance(from, Monthly))
}
