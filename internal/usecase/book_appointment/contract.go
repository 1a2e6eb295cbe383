package book_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// DoctorRepository интерфейс репозитория врачей
type DoctorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

// ReservationRepository интерфейс слот-леджера
type ReservationRepository interface {
	Reserve(ctx context.Context, key domain.SlotKey) (*domain.SlotReservation, error)
	LinkAppointment(ctx context.Context, reservationID, appointmentID int64) error
}

// ProfileServiceClient интерфейс клиента профилей пациентов
type ProfileServiceClient interface {
	GetPatient(ctx context.Context, userID int64) (*profileservice.Patient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
