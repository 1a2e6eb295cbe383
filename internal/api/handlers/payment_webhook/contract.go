package payment_webhook

import "context"

type PaymentWebhookUseCase interface {
	Execute(ctx context.Context, payload []byte, signatureHeader string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
