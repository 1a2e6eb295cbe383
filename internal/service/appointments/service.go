package appointments

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для чтения записей
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Пациент может видеть только свою запись, администратор — любую
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, asAdmin bool) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d, admin=%t", id, userID, asAdmin)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !asAdmin && appt.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments получает историю записей пациента.
// Отменённые записи включаются: история нужна целиком
func (s *Service) GetUserAppointments(ctx context.Context, userID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d", userID)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(list), userID)
	return models.FromDomainAppointmentList(list), nil
}

// GetAllAppointments получает записи с гибкой фильтрацией
// Доступно только администраторам
//
// Примеры использования:
// - Все активные записи: GetAllAppointments(ctx, &GetAllAppointmentsRequest{})
// - Записи конкретного врача: указать DoctorID
// - Записи на дату: указать SlotDate ("10_6_2025")
// - Включая отменённые: IncludeCancelled = true
func (s *Service) GetAllAppointments(ctx context.Context, req *models.GetAllAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetAllAppointments: fetching appointments, doctor=%v, user=%v, includeCancelled=%t",
		req.DoctorID, req.UserID, req.IncludeCancelled)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAllAppointments: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.GetAllWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetAllAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAllAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllAppointments: successfully fetched %d appointments", len(list))
	return models.FromDomainAppointmentList(list), nil
}
