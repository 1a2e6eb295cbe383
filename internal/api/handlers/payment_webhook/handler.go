package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	paymentWebhook "github.com/m04kA/SMC-AppointmentService/internal/usecase/payment_webhook"
)

const (
	msgInvalidPayload   = "некорректное тело события"
	msgPayloadTooLarge  = "тело события превышает допустимый размер"
	msgInvalidSignature = "подпись события не прошла проверку"
)

// maxPayloadBytes предел размера тела события
const maxPayloadBytes = 1 << 16

// SignatureHeader заголовок подписи событий Stripe
const SignatureHeader = "Stripe-Signature"

type Handler struct {
	useCase PaymentWebhookUseCase
	logger  Logger
}

func NewHandler(useCase PaymentWebhookUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/stripe/webhook
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Урезать событие нельзя: обрезанное тело не пройдёт проверку подписи,
	// и процессор будет бесконечно ретраить. Превышение лимита отклоняем явно
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.logger.Warn("POST /payments/stripe/webhook - Payload exceeds %d bytes", maxPayloadBytes)
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgPayloadTooLarge)
			return
		}
		h.logger.Warn("POST /payments/stripe/webhook - Failed to read payload: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	err = h.useCase.Execute(r.Context(), payload, r.Header.Get(SignatureHeader))
	if err != nil {
		if errors.Is(err, paymentWebhook.ErrSignatureInvalid) {
			h.logger.Warn("POST /payments/stripe/webhook - Invalid signature")
			handlers.RespondBadRequest(w, msgInvalidSignature)
			return
		}

		// Не подтверждаем событие: процессор повторит доставку
		h.logger.Error("POST /payments/stripe/webhook - Failed to process event: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, nil)
}
