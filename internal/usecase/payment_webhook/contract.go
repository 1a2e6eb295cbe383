package payment_webhook

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	MarkPaid(ctx context.Context, id int64, intentID string) error
	MarkPaymentFailed(ctx context.Context, id int64, intentID string) error
}

// PaymentClient интерфейс клиента платёжного процессора
type PaymentClient interface {
	VerifyWebhook(payload []byte, signatureHeader string) (*stripeclient.WebhookEvent, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
