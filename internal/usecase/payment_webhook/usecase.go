package payment_webhook

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// UseCase use case обработки асинхронных уведомлений процессора.
// Доставка может быть повторной и в произвольном порядке, поэтому
// все переходы идемпотентны, а понижение completed -> failed запрещено
// на уровне репозитория
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

// Execute верифицирует и обрабатывает одно событие.
// Возврат nil означает, что событие можно подтверждать процессору:
// события, которые не к чему применить, подтверждаются с WARN в логе,
// иначе процессор будет бесконечно их переотправлять
func (uc *UseCase) Execute(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := uc.paymentClient.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, stripeclient.ErrSignatureInvalid) {
			uc.logger.Warn("PaymentWebhook: signature verification failed: %v", err)
			return ErrSignatureInvalid
		}
		uc.logger.Error("PaymentWebhook: failed to verify event: %v", err)
		return fmt.Errorf("%w: failed to verify event: %v", ErrInternal, err)
	}

	uc.logger.Info("PaymentWebhook: event id=%s, type=%s", event.ID, event.Type)

	switch event.Type {
	case stripeclient.EventIntentSucceeded:
		return uc.handleIntentSucceeded(ctx, event)
	case stripeclient.EventIntentFailed:
		return uc.handleIntentFailed(ctx, event)
	default:
		// Неподписанные нами типы событий просто подтверждаем
		uc.logger.Info("PaymentWebhook: ignoring event type=%s", event.Type)
		return nil
	}
}

func (uc *UseCase) handleIntentSucceeded(ctx context.Context, event *stripeclient.WebhookEvent) error {
	appointmentID, ok := uc.appointmentFromIntent(event)
	if !ok {
		return nil
	}

	err := uc.appointmentRepo.MarkPaid(ctx, appointmentID, event.Intent.ID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAlreadyPaid):
			// Повторная доставка, либо confirm успел раньше
			uc.logger.Info("PaymentWebhook: appointment id=%d already paid, event %s is a no-op",
				appointmentID, event.ID)
			return nil
		case errors.Is(err, appointmentRepo.ErrAlreadyCancelled):
			uc.logger.Warn("PaymentWebhook: payment succeeded for cancelled appointment id=%d, intent=%s",
				appointmentID, event.Intent.ID)
			return nil
		case errors.Is(err, appointmentRepo.ErrIntentMismatch):
			uc.logger.Warn("PaymentWebhook: intent %s does not match appointment id=%d",
				event.Intent.ID, appointmentID)
			return nil
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			uc.logger.Warn("PaymentWebhook: appointment id=%d not found for event %s", appointmentID, event.ID)
			return nil
		}
		uc.logger.Error("PaymentWebhook: failed to mark paid id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: failed to mark paid: %v", ErrInternal, err)
	}

	uc.logger.Info("PaymentWebhook: appointment id=%d marked paid via intent %s", appointmentID, event.Intent.ID)
	return nil
}

func (uc *UseCase) handleIntentFailed(ctx context.Context, event *stripeclient.WebhookEvent) error {
	appointmentID, ok := uc.appointmentFromIntent(event)
	if !ok {
		return nil
	}

	err := uc.appointmentRepo.MarkPaymentFailed(ctx, appointmentID, event.Intent.ID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAlreadyPaid):
			// Запоздавший failed после успешной оплаты: успех не понижаем
			uc.logger.Info("PaymentWebhook: appointment id=%d already paid, ignoring failed event %s",
				appointmentID, event.ID)
			return nil
		case errors.Is(err, appointmentRepo.ErrIntentMismatch):
			uc.logger.Warn("PaymentWebhook: intent %s does not match appointment id=%d",
				event.Intent.ID, appointmentID)
			return nil
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			uc.logger.Warn("PaymentWebhook: appointment id=%d not found for event %s", appointmentID, event.ID)
			return nil
		}
		uc.logger.Error("PaymentWebhook: failed to mark payment failed id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: failed to mark payment failed: %v", ErrInternal, err)
	}

	uc.logger.Info("PaymentWebhook: appointment id=%d marked payment failed, intent %s",
		appointmentID, event.Intent.ID)
	return nil
}

// appointmentFromIntent извлекает ID записи из correlation-метаданных intent.
// События без пригодных метаданных подтверждаются без обработки
func (uc *UseCase) appointmentFromIntent(event *stripeclient.WebhookEvent) (int64, bool) {
	if event.Intent == nil {
		uc.logger.Warn("PaymentWebhook: event %s has no intent payload", event.ID)
		return 0, false
	}

	raw, ok := event.Intent.Metadata[stripeclient.MetadataAppointmentID]
	if !ok || raw == "" {
		uc.logger.Warn("PaymentWebhook: intent %s has no appointment metadata, event %s ignored",
			event.Intent.ID, event.ID)
		return 0, false
	}

	appointmentID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || appointmentID <= 0 {
		uc.logger.Warn("PaymentWebhook: intent %s has malformed appointment metadata %q",
			event.Intent.ID, raw)
		return 0, false
	}

	return appointmentID, true
}
