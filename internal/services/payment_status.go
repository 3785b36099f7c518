package services

import (
	"fmt"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/google/uuid"
)

// ErrInvalidStatus is returned for a status tag outside pending/processing/paid.
var ErrInvalidStatus = fmt.Errorf("%w: invalid payment status", models.ErrValidation)

// ParsePaymentStatus validates a status tag received at the API boundary.
// Any state may move to any other state; only the tag itself is checked.
func ParsePaymentStatus(s string) (models.PaymentStatus, error) {
	switch status := models.PaymentStatus(s); status {
	case models.PaymentPending, models.PaymentProcessing, models.PaymentPaid:
		return status, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidStatus, s)
}

func statusLabel(status models.PaymentStatus) string {
	switch status {
	case models.PaymentPaid:
		return "Pago"
	case models.PaymentProcessing:
		return "em Processamento"
	default:
		return "Pendente"
	}
}

// StatusChangeNotification describes a single payment transition. It is
// emitted for every transition, including repeated ones.
func StatusChangeNotification(payment models.Payment, status models.PaymentStatus, now time.Time) models.AppNotification {
	return newNotification(
		"Status de Pagamento Atualizado",
		fmt.Sprintf("O pagamento de %s (%s) foi marcado como %s.", payment.Driver, payment.Period, statusLabel(status)),
		now,
	)
}

// BulkPaidNotification summarises a bulk "mark as paid" run.
func BulkPaidNotification(count int, now time.Time) models.AppNotification {
	return newNotification(
		"Pagamentos Processados",
		fmt.Sprintf("%d pagamentos foram marcados como Pagos.", count),
		now,
	)
}

func newNotification(title, message string, now time.Time) models.AppNotification {
	return models.AppNotification{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Date:    models.FormatDate(now),
	}
}
