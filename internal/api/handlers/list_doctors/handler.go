package list_doctors

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
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

// Handle GET /api/v1/doctors
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Публичная выдача: недоступные врачи скрываются,
	// если явно не запрошено includeUnavailable=true
	onlyAvailable := r.URL.Query().Get("includeUnavailable") != "true"

	result, err := h.service.List(r.Context(), onlyAvailable)
	if err != nil {
		h.logger.Error("GET /doctors - Failed to list doctors: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /doctors - Fetched %d doctors", len(result.Doctors))
	handlers.RespondJSON(w, http.StatusOK, result)
}
