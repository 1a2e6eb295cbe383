package create_doctor

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/doctors"
	"github.com/m04kA/SMC-AppointmentService/internal/service/doctors/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDoctorData  = "некорректные данные врача"
	msgEmailTaken         = "врач с таким email уже существует"
)

type Handler struct {
	service DoctorService
	logger  Logger
}

func NewHandler(service DoctorService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/doctors
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDoctorRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/doctors - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, doctors.ErrEmailTaken):
			h.logger.Warn("POST /admin/doctors - Email taken: email=%s", req.Email)
			handlers.RespondConflict(w, msgEmailTaken)

		case errors.Is(err, doctors.ErrInvalidInput):
			h.logger.Warn("POST /admin/doctors - Invalid doctor data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDoctorData)

		default:
			h.logger.Error("POST /admin/doctors - Failed to create doctor: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/doctors - Doctor created successfully: doctor_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
