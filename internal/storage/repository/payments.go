package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// CreatePayment вставляет новую запись о платеже и возвращает её ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, course_id, gateway_payment_id, billing_type,
			      amount, status, invoice_url, pix_payload, external_reference)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, payment.CourseID, payment.GatewayPaymentID, payment.BillingType,
		payment.Amount, payment.Status, payment.InvoiceURL, payment.PixPayload,
		payment.ExternalReference).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentByGatewayID возвращает платёж по идентификатору платежа на стороне шлюза.
func (s *Storage) GetPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByGatewayID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, course_id, gateway_payment_id, billing_type, amount,
			      status, invoice_url, pix_payload, external_reference, created_at, updated_at
			  FROM payments WHERE gateway_payment_id = $1`
	row := s.DB.QueryRowContext(ctx, query, gatewayPaymentID)

	var result models.Payment
	if err := row.Scan(&result.ID, &result.UserUID, &result.CourseID, &result.GatewayPaymentID,
		&result.BillingType, &result.Amount, &result.Status, &result.InvoiceURL,
		&result.PixPayload, &result.ExternalReference,
		&result.CreatedAt, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdatePaymentStatus обновляет статус платежа по идентификатору шлюза
// и возвращает количество изменённых строк.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, gatewayPaymentID, status string) (int, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET status = $1, updated_at = now()
			  WHERE gateway_payment_id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, gatewayPaymentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPayments возвращает список платежей пользователя с пагинацией.
func (s *Storage) ListPayments(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, course_id, gateway_payment_id, billing_type, amount,
			      status, invoice_url, pix_payload, external_reference, created_at, updated_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var item models.Payment
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CourseID, &item.GatewayPaymentID,
			&item.BillingType, &item.Amount, &item.Status, &item.InvoiceURL,
			&item.PixPayload, &item.ExternalReference,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// InsertWebhookEvent записывает идентификатор события шлюза в журнал идемпотентности.
// Возвращает false, если событие с таким идентификатором уже обработано.
func (s *Storage) InsertWebhookEvent(ctx context.Context, eventID string) (bool, error) {
	const op = "storage.InsertWebhookEvent"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO webhook_events (event_id) VALUES ($1)
			  ON CONFLICT (event_id) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// RemoveWebhookEvent снимает отметку об обработке события. Используется
// при откате, чтобы повторная доставка шлюза не была отброшена как дубль.
func (s *Storage) RemoveWebhookEvent(ctx context.Context, eventID string) error {
	const op = "storage.RemoveWebhookEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM webhook_events WHERE event_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
