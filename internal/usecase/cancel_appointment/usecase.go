package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	reservationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reservation"
)

// Request модель запроса на отмену записи
type Request struct {
	AppointmentID int64

	// UserID ID пациента для проверки владения.
	// Для административной отмены игнорируется
	UserID int64

	// AsAdmin административная отмена: проверка владения пропускается
	AsAdmin bool
}

// UseCase use case отмены записи: одноразовый переход cancelled=true
// плюс освобождение слота в одной транзакции
type UseCase struct {
	appointmentRepo AppointmentRepository
	doctorRepo      DoctorRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	doctorRepo DoctorRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет отмену записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("CancelAppointment: appointment=%d, user=%d, admin=%t",
		req.AppointmentID, req.UserID, req.AsAdmin)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if !req.AsAdmin && req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	// 2. Получаем запись и проверяем владение
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
			return ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: repository error for id=%d: %v", req.AppointmentID, err)
		return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !req.AsAdmin && appt.UserID != req.UserID {
		uc.logger.Warn("CancelAppointment: access denied for user=%d to appointment id=%d",
			req.UserID, req.AppointmentID)
		return ErrAccessDenied
	}

	// Быстрый выход для повторной отмены: идемпотентная проверка
	// до открытия транзакции
	if appt.Cancelled {
		uc.logger.Warn("CancelAppointment: appointment id=%d already cancelled", req.AppointmentID)
		return ErrAlreadyCancelled
	}
	if appt.IsCompleted {
		uc.logger.Warn("CancelAppointment: appointment id=%d already completed", req.AppointmentID)
		return ErrCannotCancel
	}

	// 3. Отменяем и освобождаем слот атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Условный переход: конкурентная отмена или завершение
		// не пройдут оба
		if err := uc.appointmentRepo.MarkCancelled(txCtx, req.AppointmentID); err != nil {
			switch {
			case errors.Is(err, appointmentRepo.ErrAlreadyCancelled):
				return ErrAlreadyCancelled
			case errors.Is(err, appointmentRepo.ErrAlreadyCompleted):
				return ErrCannotCancel
			case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CancelAppointment: failed to mark cancelled id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to mark cancelled: %v", ErrInternal, err)
		}

		// 3.2. Освобождаем слот. Отсутствие врача или резервации — не повод
		// провалить отмену: целостность записи важнее, расхождение
		// фиксируется в логах как восстановимое
		if _, err := uc.doctorRepo.GetByID(txCtx, appt.DoctorID); err != nil {
			uc.logger.Warn("CancelAppointment: doctor id=%d missing, slot release skipped: appointment=%d",
				appt.DoctorID, req.AppointmentID)
			return nil
		}

		err := uc.reservationRepo.Release(txCtx, domain.SlotKey{
			DoctorID: appt.DoctorID,
			SlotDate: appt.SlotDate,
			SlotTime: appt.SlotTime,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("CancelAppointment: reservation missing for appointment=%d (doctor=%d, date=%s, time=%s)",
					req.AppointmentID, appt.DoctorID, appt.SlotDate, appt.SlotTime)
				return nil
			}
			uc.logger.Error("CancelAppointment: failed to release slot for appointment=%d: %v",
				req.AppointmentID, err)
			return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	uc.logger.Info("CancelAppointment: successfully cancelled appointment id=%d", req.AppointmentID)
	return nil
}
