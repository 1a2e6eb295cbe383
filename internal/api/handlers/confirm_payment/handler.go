package confirm_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	confirmPayment "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnauthorized         = "требуется аутентификация"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgCancelled            = "запись отменена, оплата невозможна"
	msgIntentMismatch       = "платёж не соответствует записи"
	msgNotSucceeded         = "оплата не подтверждена платёжным сервисом"
	msgAmountMismatch       = "сумма платежа не совпадает с ценой записи"
	msgPaymentUnavailable   = "платёжный сервис временно недоступен"
)

// ConfirmPaymentRequest HTTP request model
type ConfirmPaymentRequest struct {
	IntentID string `json:"intentId"`
}

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/confirm-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/confirm-payment - Missing user identity")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/confirm-payment - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ConfirmPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/confirm-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.useCase.Execute(r.Context(), &confirmPayment.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		IntentID:      req.IntentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm-payment - Appointment not found: appointment_id=%d",
				appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmPayment.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/confirm-payment - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmPayment.ErrAppointmentCancelled):
			h.logger.Warn("POST /appointments/{id}/confirm-payment - Appointment cancelled: appointment_id=%d",
				appointmentID)
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, confirmPayment.ErrIntentMismatch):
			h.logger.Warn("POST /appointments/{id}/confirm-payment - Intent mismatch: appointment_id=%d, intent_id=%s",
				appointmentID, req.IntentID)
			handlers.RespondConflict(w, msgIntentMismatch)

		case errors.Is(err, confirmPayment.ErrNotSucceeded):
			h.logger.Warn("POST /appointments/{id}/confirm-payment - Payment not succeeded: appointment_id=%d, intent_id=%s",
				appointmentID, req.IntentID)
			handlers.RespondBadRequest(w, msgNotSucceeded)

		case errors.Is(err, confirmPayment.ErrAmountMismatch):
			h.logger.Error("POST /appointments/{id}/confirm-payment - Amount mismatch: appointment_id=%d, intent_id=%s",
				appointmentID, req.IntentID)
			handlers.RespondConflict(w, msgAmountMismatch)

		case errors.Is(err, confirmPayment.ErrPaymentProcessor):
			h.logger.Error("POST /appointments/{id}/confirm-payment - Payment processor failure: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/confirm-payment - Invalid input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/{id}/confirm-payment - Failed to confirm payment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/confirm-payment - Payment confirmed: appointment_id=%d, intent_id=%s",
		appointmentID, req.IntentID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
