package doctors

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DoctorRepository интерфейс репозитория врачей
type DoctorRepository interface {
	Create(ctx context.Context, doc *domain.Doctor) (*domain.Doctor, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Doctor, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

// ReservationRepository интерфейс слот-леджера
type ReservationRepository interface {
	GetAllByDoctor(ctx context.Context, doctorID int64) ([]*domain.SlotReservation, error)
	GetByDoctorAndDate(ctx context.Context, doctorID int64, date types.SlotDate) ([]*domain.SlotReservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
