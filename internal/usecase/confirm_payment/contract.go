package confirm_payment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	MarkPaid(ctx context.Context, id int64, intentID string) error
}

// PaymentClient интерфейс клиента платёжного процессора
type PaymentClient interface {
	RetrieveIntent(ctx context.Context, intentID string) (*stripeclient.PaymentIntent, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
