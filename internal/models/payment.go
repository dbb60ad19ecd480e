package models

import "time"

// Статусы платежа, отражающие события платёжного шлюза.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusRefunded  = "refunded"
)

// Способы оплаты, поддерживаемые шлюзом.
const (
	BillingTypePix    = "PIX"
	BillingTypeBoleto = "BOLETO"
)

// Payment представляет локальную запись о платеже, созданную при чекауте
// и обновляемую обработчиком вебхуков.
type Payment struct {
	ID                int       // Уникальный идентификатор записи
	UserUID           string    // Идентификатор пользователя
	CourseID          *string   // Курс при разовой покупке (nil — оплата подписки)
	GatewayPaymentID  string    // Идентификатор платежа на стороне шлюза (уникальный)
	BillingType       string    // PIX или BOLETO
	Amount            float64   // Сумма платежа
	Status            string    // pending, confirmed, overdue, refunded
	InvoiceURL        string    // Ссылка на счёт (boleto)
	PixPayload        string    // Payload QR-кода (pix)
	ExternalReference string    // Идентификатор, переданный клиентом при чекауте
	CreatedAt         time.Time // Дата создания
	UpdatedAt         time.Time // Дата последнего изменения
}

// DummyCheckout используется для приёма данных чекаута из JSON-запроса.
// CourseID опционален: без него оплачивается подписка на платформу
// c циклом из поля Plan.
type DummyCheckout struct {
	CourseID    string `json:"course_id,omitempty" validate:"omitempty,uuid"`
	Plan        string `json:"plan,omitempty" validate:"omitempty,oneof=monthly yearly"`
	BillingType string `json:"billing_type" validate:"required,oneof=PIX BOLETO"`
	Identifier  string `json:"identifier" validate:"required"`
	CPF         string `json:"cpf" validate:"required,numeric"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

// ReceiptEvent — событие для отправки квитанции об оплате,
// публикуемое в очередь после подтверждения платежа.
type ReceiptEvent struct {
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	Amount           float64   `json:"amount"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	PaidAt           time.Time `json:"paid_at"`
}
