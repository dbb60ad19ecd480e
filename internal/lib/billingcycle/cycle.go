// Package billingcycle определяет биллинговый цикл по сумме платежа
// и считает дату окончания оплаченного периода.
package billingcycle

import "time"

// Cycle — биллинговый цикл подписки.
type Cycle string

// Поддерживаемые циклы.
const (
	Monthly Cycle = "monthly"
	Yearly  Cycle = "yearly"
)

// yearlyThreshold — минимальная сумма платежа, трактуемая как годовая оплата.
const yearlyThreshold = 200.0

// Infer определяет цикл по сумме платежа: сумма >= 200 считается годовой,
// всё остальное — месячной оплатой.
func Infer(amount float64) Cycle {
	if amount >= yearlyThreshold {
		return Yearly
	}
	return Monthly
}

// Advance возвращает конец периода, начинающегося в from, для заданного цикла.
func Advance(from time.Time, cycle Cycle) time.Time {
	if cycle == Yearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
