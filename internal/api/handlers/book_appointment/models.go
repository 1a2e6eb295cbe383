package book_appointment

import (
	"time"

	bookAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	DoctorID int64  `json:"doctorId"`
	SlotDate string `json:"slotDate"` // "10_6_2025"
	SlotTime string `json:"slotTime"` // "10:00 AM"
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
// (с парсингом даты и метки времени)
func (r *BookAppointmentRequest) ToUseCaseRequest(userID int64) (*bookAppointment.Request, error) {
	slotDate, err := types.ParseSlotDate(r.SlotDate)
	if err != nil {
		return nil, err
	}

	slotTime, err := types.ParseTimeLabel(r.SlotTime)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		UserID:   userID,
		DoctorID: r.DoctorID,
		SlotDate: slotDate,
		SlotTime: slotTime,
	}, nil
}

// BookAppointmentResponse HTTP response model
type BookAppointmentResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	DoctorID int64  `json:"doctorId"`
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`

	Amount        int64  `json:"amount"`
	PaymentStatus string `json:"paymentStatus"`

	DoctorName       string `json:"doctorName"`
	DoctorSpeciality string `json:"doctorSpeciality"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *BookAppointmentResponse {
	return &BookAppointmentResponse{
		ID:               resp.ID,
		UserID:           resp.UserID,
		DoctorID:         resp.DoctorID,
		SlotDate:         resp.SlotDate.String(),
		SlotTime:         resp.SlotTime.String(),
		Amount:           resp.Amount,
		PaymentStatus:    resp.PaymentStatus,
		DoctorName:       resp.DoctorName,
		DoctorSpeciality: resp.DoctorSpeciality,
		CreatedAt:        resp.CreatedAt,
	}
}
