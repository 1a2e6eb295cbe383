package get_booked_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/doctors/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type DoctorService interface {
	GetBookedSlots(ctx context.Context, doctorID int64, date *types.SlotDate) (*models.BookedSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
