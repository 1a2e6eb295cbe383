package create_payment_intent

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createPaymentIntent "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_payment_intent"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "требуется аутентификация"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgCancelled            = "запись отменена, оплата невозможна"
	msgAlreadyPaid          = "запись уже оплачена"
	msgDoctorUnavailable    = "врач недоступен для приёма"
	msgPaymentUnavailable   = "платёжный сервис временно недоступен"
)

type Handler struct {
	useCase CreatePaymentIntentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentIntentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/payment-intent
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/payment-intent - Missing user identity")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/payment-intent - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createPaymentIntent.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, createPaymentIntent.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/payment-intent - Appointment not found: appointment_id=%d",
				appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPaymentIntent.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/payment-intent - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createPaymentIntent.ErrAppointmentCancelled):
			h.logger.Warn("POST /appointments/{id}/payment-intent - Appointment cancelled: appointment_id=%d",
				appointmentID)
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, createPaymentIntent.ErrAlreadyPaid):
			h.logger.Warn("POST /appointments/{id}/payment-intent - Already paid: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, createPaymentIntent.ErrDoctorUnavailable):
			h.logger.Warn("POST /appointments/{id}/payment-intent - Doctor unavailable: appointment_id=%d",
				appointmentID)
			handlers.RespondConflict(w, msgDoctorUnavailable)

		case errors.Is(err, createPaymentIntent.ErrPaymentProcessor):
			h.logger.Error("POST /appointments/{id}/payment-intent - Payment processor failure: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		case errors.Is(err, createPaymentIntent.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/payment-intent - Invalid input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		default:
			h.logger.Error("POST /appointments/{id}/payment-intent - Failed to create intent: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/payment-intent - Intent created: appointment_id=%d, intent_id=%s",
		appointmentID, result.IntentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
