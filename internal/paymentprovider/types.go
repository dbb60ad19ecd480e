package paymentprovider

// Типы событий, присылаемых шлюзом на webhook-эндпоинт.
const (
	EventPaymentCreated   = "PAYMENT_CREATED"
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentOverdue   = "PAYMENT_OVERDUE"
	EventPaymentRefunded  = "PAYMENT_REFUNDED"
)

// CreateCustomerRequest — запрос на регистрацию плательщика.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	CPFCNPJ string `json:"cpfCnpj" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

// CreateCustomerResponse — ответ шлюза на регистрацию плательщика.
type CreateCustomerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CPFCNPJ string `json:"cpfCnpj"`
	Email   string `json:"email"`
}

// CreatePaymentRequest — запрос на создание платежа.
type CreatePaymentRequest struct {
	Customer          string  `json:"customer"`          // ID плательщика на стороне шлюза
	BillingType       string  `json:"billingType"`       // PIX или BOLETO
	Value             float64 `json:"value"`             // Сумма платежа
	DueDate           string  `json:"dueDate"`           // Дата оплаты в формате 2006-01-02
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"` // Идентификатор на нашей стороне
}

// CreatePaymentResponse — ответ шлюза на создание платежа.
type CreatePaymentResponse struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	BillingType       string  `json:"billingType"`
	InvoiceURL        string  `json:"invoiceUrl"`        // Ссылка на счёт (boleto)
	BankSlipURL       string  `json:"bankSlipUrl"`       // Прямая ссылка на boleto
	ExternalReference string  `json:"externalReference"`
}

// PixQRCodeResponse — данные QR-кода PIX-платежа.
type PixQRCodeResponse struct {
	EncodedImage   string `json:"encodedImage"`   // PNG QR-кода в base64
	Payload        string `json:"payload"`        // Копируемая строка PIX
	ExpirationDate string `json:"expirationDate"`
}

// WebhookPayload — событие, присылаемое шлюзом на webhook-эндпоинт.
type WebhookPayload struct {
	ID      string `json:"id"`    // Идентификатор события (ключ идемпотентности)
	Event   string `json:"event"` // PAYMENT_CREATED, PAYMENT_CONFIRMED, PAYMENT_OVERDUE, PAYMENT_REFUNDED
	Payment struct {
		ID                string  `json:"id"`
		Status            string  `json:"status"`
		Value             float64 `json:"value"`
		BillingType       string  `json:"billingType"`
		ExternalReference string  `json:"externalReference"`
	} `json:"payment"`
}

// ErrorResponse — структура ошибки шлюза.
type ErrorResponse struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}
