package create_payment_intent

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	AttachPaymentIntent(ctx context.Context, id int64, intentID string) error
}

// DoctorRepository интерфейс репозитория врачей
type DoctorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

// PaymentClient интерфейс клиента платёжного процессора
type PaymentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string, appointmentID, userID int64) (*stripeclient.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*stripeclient.PaymentIntent, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
