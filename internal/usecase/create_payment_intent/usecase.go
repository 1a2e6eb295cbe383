package create_payment_intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	doctorRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/doctor"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// UseCase use case создания payment intent для записи.
// К записи привязывается ровно один intent: конкурентные запросы
// получают один и тот же client secret
type UseCase struct {
	appointmentRepo AppointmentRepository
	doctorRepo      DoctorRepository
	paymentClient   PaymentClient
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	doctorRepo DoctorRepository,
	paymentClient PaymentClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		paymentClient:   paymentClient,
		logger:          logger,
	}
}

// Execute выполняет создание payment intent
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePaymentIntent: appointment=%d, user=%d", req.AppointmentID, req.UserID)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	// 2. Получаем запись и проверяем владение и статус
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CreatePaymentIntent: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CreatePaymentIntent: repository error for id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if appt.UserID != req.UserID {
		uc.logger.Warn("CreatePaymentIntent: access denied for user=%d to appointment id=%d",
			req.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}
	if appt.Cancelled {
		uc.logger.Warn("CreatePaymentIntent: appointment id=%d is cancelled", req.AppointmentID)
		return nil, ErrAppointmentCancelled
	}
	if appt.Payment {
		uc.logger.Warn("CreatePaymentIntent: appointment id=%d already paid", req.AppointmentID)
		return nil, ErrAlreadyPaid
	}

	// 3. Врач должен оставаться доступным для приёма
	doc, err := uc.doctorRepo.GetByID(ctx, appt.DoctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			uc.logger.Warn("CreatePaymentIntent: doctor id=%d not found for appointment id=%d",
				appt.DoctorID, appt.ID)
			return nil, ErrDoctorUnavailable
		}
		uc.logger.Error("CreatePaymentIntent: doctor repository error for id=%d: %v", appt.DoctorID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	if !doc.Available {
		uc.logger.Warn("CreatePaymentIntent: doctor id=%d unavailable, appointment id=%d", doc.ID, appt.ID)
		return nil, ErrDoctorUnavailable
	}

	// 4. Если intent уже привязан, повторно его не создаем:
	// возвращаем client secret существующего
	if appt.PaymentIntentID != nil {
		return uc.retrieveExisting(ctx, *appt.PaymentIntentID, appt)
	}

	// 5. Создаем intent на зафиксированную при бронировании сумму
	intent, err := uc.paymentClient.CreateIntent(
		ctx,
		appt.AmountMinorUnits(),
		domain.PaymentCurrency,
		appt.ID,
		appt.UserID,
	)
	if err != nil {
		uc.logger.Error("CreatePaymentIntent: processor failure for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProcessor, err)
	}

	// 6. Привязываем intent к записи. Проигравший гонку запрос получает
	// intent победителя, его собственный intent остаётся неоплачиваемым
	err = uc.appointmentRepo.AttachPaymentIntent(ctx, appt.ID, intent.ID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrIntentAlreadyAttached):
			return uc.resolveRace(ctx, appt.ID)
		case errors.Is(err, appointmentRepo.ErrAlreadyCancelled):
			return nil, ErrAppointmentCancelled
		case errors.Is(err, appointmentRepo.ErrAlreadyPaid):
			return nil, ErrAlreadyPaid
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CreatePaymentIntent: failed to attach intent %s to appointment id=%d: %v",
			intent.ID, appt.ID, err)
		return nil, fmt.Errorf("%w: failed to attach intent: %v", ErrInternal, err)
	}

	uc.logger.Info("CreatePaymentIntent: created intent %s for appointment id=%d", intent.ID, appt.ID)
	return &Response{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}

// resolveRace перечитывает запись после проигранной гонки привязки
// и возвращает уже привязанный intent
func (uc *UseCase) resolveRace(ctx context.Context, appointmentID int64) (*Response, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		uc.logger.Error("CreatePaymentIntent: failed to re-read appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	if appt.PaymentIntentID == nil {
		// Привязка не прошла, но intent не появился: состояние неожиданное
		uc.logger.Error("CreatePaymentIntent: attach lost but no intent attached: appointment=%d", appointmentID)
		return nil, fmt.Errorf("%w: inconsistent intent state", ErrInternal)
	}
	return uc.retrieveExisting(ctx, *appt.PaymentIntentID, appt)
}

// retrieveExisting получает client secret уже привязанного intent у процессора
func (uc *UseCase) retrieveExisting(ctx context.Context, intentID string, appt *domain.Appointment) (*Response, error) {
	uc.logger.Info("CreatePaymentIntent: reusing intent %s for appointment id=%d", intentID, appt.ID)

	intent, err := uc.paymentClient.RetrieveIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, stripeclient.ErrIntentNotFound) {
			uc.logger.Error("CreatePaymentIntent: attached intent %s missing at processor: appointment=%d",
				intentID, appt.ID)
			return nil, fmt.Errorf("%w: attached intent missing at processor", ErrInternal)
		}
		uc.logger.Error("CreatePaymentIntent: processor failure retrieving intent %s: %v", intentID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProcessor, err)
	}

	return &Response{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}
