// Package payment реализует оркестрацию чекаута через платёжный шлюз
// и сверку статусов платежей по событиям вебхуков.
package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-access-platform/internal/lib/billingcycle"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
	"github.com/magabrotheeeer/course-access-platform/internal/paymentprovider"
)

// Суммы планов подписки на платформу.
const (
	monthlyPlanAmount = 29.90
	yearlyPlanAmount  = 299.90
)

// dueDateDays — срок оплаты счёта, выставляемого шлюзом.
const dueDateDays = 3

// ErrCourseIsFree возвращается при попытке купить бесплатный курс.
var ErrCourseIsFree = errors.New("course is free, purchase is not required")

// ErrCourseNotPurchasable возвращается, если у курса нет цены разовой покупки.
var ErrCourseNotPurchasable = errors.New("course has no one-off price")

// Repository определяет методы хранилища, используемые платёжной логикой.
type Repository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	GetPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, gatewayPaymentID, status string) (int, error)
	ListPayments(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error)
	InsertWebhookEvent(ctx context.Context, eventID string) (bool, error)
	RemoveWebhookEvent(ctx context.Context, eventID string) error
	FindCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	UpdateSubscriptionPeriod(ctx context.Context, id int, status string, periodStart, periodEnd time.Time) (int, error)
	UpdateSubscriptionStatus(ctx context.Context, id int, status string) (int, error)
	SetCourseAccessKind(ctx context.Context, userUID, courseID, kind string) error
	ReadCourse(ctx context.Context, id string) (*models.Course, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
}

// GatewayClient описывает операции платёжного шлюза.
type GatewayClient interface {
	CreateCustomer(reqParams paymentprovider.CreateCustomerRequest) (*paymentprovider.CreateCustomerResponse, error)
	CreatePayment(reqParams paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error)
	GetPixQRCode(paymentID string) (*paymentprovider.PixQRCodeResponse, error)
}

// Publisher публикует событие квитанции в очередь отправки писем.
type Publisher interface {
	Publish(message any) error
}

// CheckoutResult — данные, возвращаемые клиенту после создания платежа.
type CheckoutResult struct {
	GatewayPaymentID string                             `json:"gateway_payment_id"`
	Status           string                             `json:"status"`
	Amount           float64                            `json:"amount"`
	BillingType      string                             `json:"billing_type"`
	InvoiceURL       string                             `json:"invoice_url,omitempty"`
	BankSlipURL      string                             `json:"bank_slip_url,omitempty"`
	Pix              *paymentprovider.PixQRCodeResponse `json:"pix,omitempty"`
}

// Service реализует чекаут и обработку событий вебхуков.
type Service struct {
	repo      Repository
	gateway   GatewayClient
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, gateway GatewayClient, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// resolveAmount определяет сумму платежа: цена курса при разовой покупке
// или сумма плана подписки.
func (s *Service) resolveAmount(ctx context.Context, req models.DummyCheckout) (float64, *string, error) {
	if req.CourseID != "" {
		course, err := s.repo.ReadCourse(ctx, req.CourseID)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read course: %w", err)
		}
		if course.IsFree {
			return 0, nil, ErrCourseIsFree
		}
		if course.Price == nil {
			return 0, nil, ErrCourseNotPurchasable
		}
		courseID := course.ID
		return *course.Price, &courseID, nil
	}
	if req.Plan == "yearly" {
		return yearlyPlanAmount, nil, nil
	}
	return monthlyPlanAmount, nil, nil
}

// Checkout создаёт платёж на стороне шлюза, сохраняет локальную запись
// со статусом pending и возвращает платёжные данные для клиента.
//
// Ошибки шлюза не ретраятся: они возвращаются вызывающей стороне как есть,
// сверка произойдёт позже по вебхуку.
func (s *Service) Checkout(ctx context.Context, userUID string, req models.DummyCheckout) (*CheckoutResult, error) {
	amount, courseID, err := s.resolveAmount(ctx, req)
	if err != nil {
		return nil, err
	}

	customer, err := s.gateway.CreateCustomer(paymentprovider.CreateCustomerRequest{
		Name:    req.Name,
		CPFCNPJ: req.CPF,
		Email:   req.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway customer: %w", err)
	}

	dueDate := s.now().AddDate(0, 0, dueDateDays).Format("2006-01-02")
	gatewayResp, err := s.gateway.CreatePayment(paymentprovider.CreatePaymentRequest{
		Customer:          customer.ID,
		BillingType:       req.BillingType,
		Value:             amount,
		DueDate:           dueDate,
		Description:       "Course platform payment",
		ExternalReference: req.Identifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway payment: %w", err)
	}

	result := &CheckoutResult{
		GatewayPaymentID: gatewayResp.ID,
		Status:           models.PaymentStatusPending,
		Amount:           amount,
		BillingType:      req.BillingType,
		InvoiceURL:       gatewayResp.InvoiceURL,
		BankSlipURL:      gatewayResp.BankSlipURL,
	}
	pixPayload := ""
	if req.BillingType == models.BillingTypePix {
		qr, err := s.gateway.GetPixQRCode(gatewayResp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get pix qr code: %w", err)
		}
		result.Pix = qr
		pixPayload = qr.Payload
	}

	payment := models.Payment{
		UserUID:           userUID,
		CourseID:          courseID,
		GatewayPaymentID:  gatewayResp.ID,
		BillingType:       req.BillingType,
		Amount:            amount,
		Status:            models.PaymentStatusPending,
		InvoiceURL:        gatewayResp.InvoiceURL,
		PixPayload:        pixPayload,
		ExternalReference: req.Identifier,
	}
	if _, err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	s.log.Info("checkout created",
		slog.String("gateway_payment_id", gatewayResp.ID),
		slog.String("billing_type", req.BillingType))
	return result, nil
}

// List возвращает платежи пользователя с пагинацией.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userUID, limit, offset)
}

// ProcessWebhookEvent применяет событие шлюза к локальным данным.
//
// События дедуплицируются по идентификатору события: повторная доставка
// завершается успешно без побочных эффектов. При ошибке обработки запись
// журнала идемпотентности снимается, чтобы повторная доставка шлюза
// не была проглочена.
func (s *Service) ProcessWebhookEvent(ctx context.Context, payload *paymentprovider.WebhookPayload) error {
	const op = "payment.ProcessWebhookEvent"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", payload.ID),
		slog.String("event", payload.Event),
		slog.String("gateway_payment_id", payload.Payment.ID),
	)

	fresh, err := s.repo.InsertWebhookEvent(ctx, payload.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !fresh {
		log.Info("duplicate webhook event ignored")
		return nil
	}

	if err := s.applyEvent(ctx, log, payload); err != nil {
		if removeErr := s.repo.RemoveWebhookEvent(ctx, payload.ID); removeErr != nil {
			log.Error("failed to unmark webhook event", sl.Err(removeErr))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) applyEvent(ctx context.Context, log *slog.Logger, payload *paymentprovider.WebhookPayload) error {
	payment, err := s.repo.GetPaymentByGatewayID(ctx, payload.Payment.ID)
	if err != nil {
		return fmt.Errorf("failed to find payment: %w", err)
	}

	switch payload.Event {
	case paymentprovider.EventPaymentCreated:
		if _, err := s.repo.UpdatePaymentStatus(ctx, payment.GatewayPaymentID, models.PaymentStatusPending); err != nil {
			return err
		}
	case paymentprovider.EventPaymentConfirmed:
		return s.confirmPayment(ctx, log, payment)
	case paymentprovider.EventPaymentOverdue:
		if _, err := s.repo.UpdatePaymentStatus(ctx, payment.GatewayPaymentID, models.PaymentStatusOverdue); err != nil {
			return err
		}
		return s.moveSubscription(ctx, log, payment.UserUID, models.SubscriptionStatusPastDue)
	case paymentprovider.EventPaymentRefunded:
		if _, err := s.repo.UpdatePaymentStatus(ctx, payment.GatewayPaymentID, models.PaymentStatusRefunded); err != nil {
			return err
		}
		return s.moveSubscription(ctx, log, payment.UserUID, models.SubscriptionStatusCanceled)
	default:
		log.Info("ignored webhook event")
	}
	return nil
}

// confirmPayment подтверждает платёж: разовая покупка добавляет курс
// в allow-список пользователя, оплата плана активирует подписку и продлевает
// период на один биллинговый цикл, определяемый по сумме.
func (s *Service) confirmPayment(ctx context.Context, log *slog.Logger, payment *models.Payment) error {
	if _, err := s.repo.UpdatePaymentStatus(ctx, payment.GatewayPaymentID, models.PaymentStatusConfirmed); err != nil {
		return err
	}

	if payment.CourseID != nil {
		if err := s.repo.SetCourseAccessKind(ctx, payment.UserUID, *payment.CourseID, models.CourseAccessAllowed); err != nil {
			return fmt.Errorf("failed to grant course access: %w", err)
		}
		log.Info("course purchase confirmed", slog.String("course_id", *payment.CourseID))
	} else {
		now := s.now()
		cycle := billingcycle.Infer(payment.Amount)
		periodEnd := billingcycle.Advance(now, cycle)

		current, err := s.repo.FindCurrentSubscription(ctx, payment.UserUID)
		switch {
		case err == nil:
			if _, err := s.repo.UpdateSubscriptionPeriod(ctx, current.ID,
				models.SubscriptionStatusActive, now, periodEnd); err != nil {
				return err
			}
		case errors.Is(err, sql.ErrNoRows):
			sub := models.Subscription{
				UserUID:            payment.UserUID,
				Status:             models.SubscriptionStatusActive,
				CurrentPeriodStart: &now,
				CurrentPeriodEnd:   &periodEnd,
			}
			if _, err := s.repo.CreateSubscription(ctx, sub); err != nil {
				return err
			}
		default:
			return err
		}
		log.Info("subscription activated", slog.String("cycle", string(cycle)),
			slog.Time("period_end", periodEnd))
	}

	s.publishReceipt(ctx, log, payment)
	return nil
}

// moveSubscription переводит текущую подписку пользователя в заданный статус.
// Отсутствие подписки не является ошибкой.
func (s *Service) moveSubscription(ctx context.Context, log *slog.Logger, userUID, status string) error {
	current, err := s.repo.FindCurrentSubscription(ctx, userUID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no current subscription to move", slog.String("status", status))
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := s.repo.UpdateSubscriptionStatus(ctx, current.ID, status); err != nil {
		return err
	}
	return nil
}

// publishReceipt отправляет событие квитанции в очередь. Ошибка публикации
// не откатывает сверку платежа.
func (s *Service) publishReceipt(ctx context.Context, log *slog.Logger, payment *models.Payment) {
	user, err := s.repo.GetUserByUID(ctx, payment.UserUID)
	if err != nil {
		log.Warn("failed to load user for receipt", sl.Err(err))
		return
	}
	event := models.ReceiptEvent{
		Email:            user.Email,
		Username:         user.Username,
		Amount:           payment.Amount,
		GatewayPaymentID: payment.GatewayPaymentID,
		PaidAt:           s.now(),
	}
	if err := s.publisher.Publish(event); err != nil {
		log.Warn("failed to publish receipt event", sl.Err(err))
		return
	}
	log.Info("receipt event published", slog.String("email", user.Email))
}
