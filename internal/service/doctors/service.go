package doctors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	doctorRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/doctor"
	"github.com/m04kA/SMC-AppointmentService/internal/service/doctors/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис для работы с профилями врачей
type Service struct {
	doctorRepo      DoctorRepository
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса врачей
func NewService(
	doctorRepo DoctorRepository,
	reservationRepo ReservationRepository,
	logger Logger,
) *Service {
	return &Service{
		doctorRepo:      doctorRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// Create создает профиль врача
// Доступно только администраторам
func (s *Service) Create(ctx context.Context, req *models.CreateDoctorRequest) (*models.DoctorResponse, error) {
	s.logger.Info("Create: creating doctor name=%s, speciality=%s", req.Name, req.Speciality)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	doc, err := s.doctorRepo.Create(ctx, req.ToDomain())
	if err != nil {
		if errors.Is(err, doctorRepo.ErrEmailTaken) {
			s.logger.Warn("Create: email %s already taken", req.Email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created doctor id=%d", doc.ID)
	return models.FromDomainDoctor(doc), nil
}

// List получает список врачей
// Публичная выдача ограничивается доступными врачами
func (s *Service) List(ctx context.Context, onlyAvailable bool) (*models.DoctorListResponse, error) {
	s.logger.Info("List: fetching doctors, onlyAvailable=%t", onlyAvailable)

	list, err := s.doctorRepo.List(ctx, onlyAvailable)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d doctors", len(list))
	return models.FromDomainDoctorList(list), nil
}

// GetBookedSlots получает занятые слоты врача, сгруппированные по датам.
// date != nil ограничивает выдачу одной датой.
// Выдача строится по слот-леджеру: отменённые записи слотов не держат
func (s *Service) GetBookedSlots(ctx context.Context, doctorID int64, date *types.SlotDate) (*models.BookedSlotsResponse, error) {
	s.logger.Info("GetBookedSlots: fetching booked slots for doctor=%d", doctorID)

	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}
	if date != nil {
		if err := date.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid date: %v", ErrInvalidInput, err)
		}
	}

	// Проверяем существование врача
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			s.logger.Warn("GetBookedSlots: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("GetBookedSlots: repository error for doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetBookedSlots - repository error: %v", ErrInternal, err)
	}

	var reservations []*domain.SlotReservation
	var err error
	if date != nil {
		reservations, err = s.reservationRepo.GetByDoctorAndDate(ctx, doctorID, *date)
	} else {
		reservations, err = s.reservationRepo.GetAllByDoctor(ctx, doctorID)
	}
	if err != nil {
		s.logger.Error("GetBookedSlots: reservation repository error for doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetBookedSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBookedSlots: successfully fetched %d booked slots for doctor=%d",
		len(reservations), doctorID)
	return models.FromDomainReservations(doctorID, reservations), nil
}

// SetAvailability меняет доступность врача для новых бронирований
// Доступно только администраторам. Существующие записи не затрагиваются
func (s *Service) SetAvailability(ctx context.Context, doctorID int64, req *models.SetAvailabilityRequest) error {
	s.logger.Info("SetAvailability: doctor=%d, available=%t", doctorID, req.Available)

	if doctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if err := s.doctorRepo.SetAvailability(ctx, doctorID, req.Available); err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			s.logger.Warn("SetAvailability: doctor id=%d not found", doctorID)
			return ErrDoctorNotFound
		}
		s.logger.Error("SetAvailability: repository error for doctor id=%d: %v", doctorID, err)
		return fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetAvailability: doctor id=%d is now available=%t", doctorID, req.Available)
	return nil
}

// validateCreateRequest валидирует запрос на создание врача
func validateCreateRequest(req *models.CreateDoctorRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}

	speciality := strings.TrimSpace(req.Speciality)
	if speciality == "" || len(speciality) > domain.MaxSpecialityLength {
		return fmt.Errorf("%w: speciality is required and must be at most %d characters", ErrInvalidInput, domain.MaxSpecialityLength)
	}

	if len(req.About) > domain.MaxAboutLength {
		return fmt.Errorf("%w: about must be at most %d characters", ErrInvalidInput, domain.MaxAboutLength)
	}

	if req.Fee < domain.MinFee || req.Fee > domain.MaxFee {
		return fmt.Errorf("%w: fee must be between %d and %d", ErrInvalidInput, domain.MinFee, domain.MaxFee)
	}

	return nil
}
