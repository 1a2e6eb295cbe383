package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на бронирование слота
type Request struct {
	UserID   int64           // ID пациента (из аутентификации)
	DoctorID int64           // ID врача
	SlotDate types.SlotDate  // Дата слота ("10_6_2025")
	SlotTime types.TimeLabel // Метка времени слота ("10:00 AM")
}

// Response модель ответа с созданной записью
type Response struct {
	ID       int64
	UserID   int64
	DoctorID int64
	SlotDate types.SlotDate
	SlotTime types.TimeLabel

	// Amount цена консультации, зафиксированная на момент бронирования
	Amount        int64
	PaymentStatus string

	// Денормализованные данные для истории
	DoctorName       string
	DoctorSpeciality string

	CreatedAt time.Time
}

func fromDomain(appt *domain.Appointment) *Response {
	return &Response{
		ID:               appt.ID,
		UserID:           appt.UserID,
		DoctorID:         appt.DoctorID,
		SlotDate:         appt.SlotDate,
		SlotTime:         appt.SlotTime,
		Amount:           appt.Amount,
		PaymentStatus:    string(appt.PaymentStatus),
		DoctorName:       appt.DoctorName,
		DoctorSpeciality: appt.DoctorSpeciality,
		CreatedAt:        appt.CreatedAt,
	}
}
