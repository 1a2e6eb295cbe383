package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// Request модель запроса на подтверждение оплаты
type Request struct {
	AppointmentID int64
	UserID        int64

	// IntentID intent, об успехе которого сообщил клиент.
	// Статус intent сервис перепроверяет у процессора сам
	IntentID string
}

// UseCase use case синхронного подтверждения оплаты.
// Источник истины о статусе intent — платёжный процессор,
// а не тело запроса клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentClient   PaymentClient
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentClient PaymentClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentClient:   paymentClient,
		logger:          logger,
	}
}

// Execute выполняет подтверждение оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("ConfirmPayment: appointment=%d, user=%d, intent=%s",
		req.AppointmentID, req.UserID, req.IntentID)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.IntentID == "" {
		return fmt.Errorf("%w: intentID is required", ErrInvalidInput)
	}

	// 2. Получаем запись и проверяем владение
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ConfirmPayment: appointment id=%d not found", req.AppointmentID)
			return ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmPayment: repository error for id=%d: %v", req.AppointmentID, err)
		return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if appt.UserID != req.UserID {
		uc.logger.Warn("ConfirmPayment: access denied for user=%d to appointment id=%d",
			req.UserID, req.AppointmentID)
		return ErrAccessDenied
	}
	if appt.Cancelled {
		uc.logger.Warn("ConfirmPayment: appointment id=%d is cancelled", req.AppointmentID)
		return ErrAppointmentCancelled
	}

	// 3. Intent должен быть тем самым, что привязан к записи
	if appt.PaymentIntentID == nil || *appt.PaymentIntentID != req.IntentID {
		uc.logger.Warn("ConfirmPayment: intent mismatch for appointment id=%d: got %s",
			req.AppointmentID, req.IntentID)
		return ErrIntentMismatch
	}

	// Повторное подтверждение уже оплаченной записи — no-op
	if appt.Payment {
		uc.logger.Info("ConfirmPayment: appointment id=%d already paid, no-op", req.AppointmentID)
		return nil
	}

	// 4. Перепроверяем статус и сумму у процессора
	intent, err := uc.paymentClient.RetrieveIntent(ctx, req.IntentID)
	if err != nil {
		if errors.Is(err, stripeclient.ErrIntentNotFound) {
			uc.logger.Warn("ConfirmPayment: intent %s not found at processor", req.IntentID)
			return ErrIntentMismatch
		}
		uc.logger.Error("ConfirmPayment: processor failure retrieving intent %s: %v", req.IntentID, err)
		return fmt.Errorf("%w: %v", ErrPaymentProcessor, err)
	}

	if intent.Status != stripeclient.IntentStatusSucceeded {
		uc.logger.Warn("ConfirmPayment: intent %s status is %q, not succeeded", intent.ID, intent.Status)
		return ErrNotSucceeded
	}

	// Сумма intent обязана совпасть с зафиксированной ценой точно
	if intent.Amount != appt.AmountMinorUnits() {
		uc.logger.Error("ConfirmPayment: amount mismatch for appointment id=%d: intent=%d, expected=%d",
			req.AppointmentID, intent.Amount, appt.AmountMinorUnits())
		return ErrAmountMismatch
	}

	// 5. Переводим запись в оплаченные. Гонка с webhook безопасна:
	// повторный переход классифицируется как already paid и гасится
	err = uc.appointmentRepo.MarkPaid(ctx, req.AppointmentID, req.IntentID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAlreadyPaid):
			uc.logger.Info("ConfirmPayment: appointment id=%d already paid, no-op", req.AppointmentID)
			return nil
		case errors.Is(err, appointmentRepo.ErrAlreadyCancelled):
			return ErrAppointmentCancelled
		case errors.Is(err, appointmentRepo.ErrIntentMismatch):
			return ErrIntentMismatch
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmPayment: failed to mark paid id=%d: %v", req.AppointmentID, err)
		return fmt.Errorf("%w: failed to mark paid: %v", ErrInternal, err)
	}

	uc.logger.Info("ConfirmPayment: appointment id=%d marked paid via intent %s", req.AppointmentID, req.IntentID)
	return nil
}
