package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reservation"
	profileClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// UseCase use case для бронирования слота у врача
type UseCase struct {
	appointmentRepo AppointmentRepository
	doctorRepo      DoctorRepository
	reservationRepo ReservationRepository
	profileClient   ProfileServiceClient
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	doctorRepo DoctorRepository,
	reservationRepo ReservationRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		reservationRepo: reservationRepo,
		profileClient:   profileClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case бронирования.
// Резервирование слота и создание записи выполняются в одной сериализуемой
// транзакции: если создание записи не удалось, откат транзакции освобождает
// слот, частичных бронирований не бывает
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: user=%d, doctor=%d, date=%s, time=%s",
		req.UserID, req.DoctorID, req.SlotDate, req.SlotTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем профиль пациента для снапшота
	patient, err := uc.profileClient.GetPatient(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profileClient.ErrPatientNotFound) {
			uc.logger.Warn("BookAppointment: patient id=%d not found", req.UserID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("BookAppointment: failed to get patient id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 3. Проверяем врача, резервируем слот и создаем запись атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем врача и проверяем доступность внутри транзакции:
		// бронирование не проскочит мимо параллельного снятия врача с приёма
		doctor, err := uc.doctorRepo.GetByID(txCtx, req.DoctorID)
		if err != nil {
			uc.logger.Warn("BookAppointment: doctor id=%d not found", req.DoctorID)
			return ErrDoctorNotFound
		}
		if !doctor.Available {
			uc.logger.Warn("BookAppointment: doctor id=%d is not available", req.DoctorID)
			return ErrDoctorUnavailable
		}

		// 3.2. Занимаем слот. Уникальный ключ (doctor_id, slot_date, slot_time)
		// гарантирует, что из двух конкурентных бронирований пройдёт одно
		reserved, err := uc.reservationRepo.Reserve(txCtx, domain.SlotKey{
			DoctorID: req.DoctorID,
			SlotDate: req.SlotDate,
			SlotTime: req.SlotTime,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("BookAppointment: slot taken: doctor=%d, date=%s, time=%s",
					req.DoctorID, req.SlotDate, req.SlotTime)
				return ErrSlotTaken
			}
			uc.logger.Error("BookAppointment: failed to reserve slot: %v", err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 3.3. Создаем запись со снапшотами профилей.
		// В снапшот не попадают credentials и данные о занятости врача
		appt := &domain.Appointment{
			UserID:   req.UserID,
			DoctorID: req.DoctorID,
			SlotDate: req.SlotDate,
			SlotTime: req.SlotTime,
			// Цена фиксируется на момент бронирования
			Amount: doctor.Fee,
			// Денормализация профиля пациента
			UserName:  patient.Name,
			UserEmail: patient.Email,
			// Денормализация профиля врача
			DoctorName:       doctor.Name,
			DoctorSpeciality: doctor.Speciality,
			DoctorDegree:     doctor.Degree,
			DoctorFee:        doctor.Fee,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 3.4. Привязываем резервацию к записи
		if err := uc.reservationRepo.LinkAppointment(txCtx, reserved.ID, created.ID); err != nil {
			uc.logger.Error("BookAppointment: failed to link reservation id=%d: %v", reserved.ID, err)
			return fmt.Errorf("%w: failed to link reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d", result.ID)
	return fromDomain(result), nil
}
