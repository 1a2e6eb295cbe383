package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// GetAllAppointmentsRequest запрос на административную выборку записей
type GetAllAppointmentsRequest struct {
	DoctorID         *int64  `json:"doctorId,omitempty"`         // Фильтр по врачу (опционально)
	UserID           *int64  `json:"userId,omitempty"`           // Фильтр по пациенту (опционально)
	SlotDate         *string `json:"slotDate,omitempty"`         // Фильтр по дате слота (опционально)
	IncludeCancelled bool    `json:"includeCancelled,omitempty"` // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetAllAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		DoctorID:         r.DoctorID,
		UserID:           r.UserID,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.SlotDate != nil {
		date, err := types.ParseSlotDate(*r.SlotDate)
		if err != nil {
			return filter, err
		}
		filter.SlotDate = &date
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	DoctorID int64  `json:"doctorId"`
	SlotDate string `json:"slotDate"` // "10_6_2025"
	SlotTime string `json:"slotTime"` // "10:00 AM"

	Amount          int64   `json:"amount"`
	Cancelled       bool    `json:"cancelled"`
	Payment         bool    `json:"payment"`
	PaymentIntentID *string `json:"paymentIntentId,omitempty"`
	PaymentStatus   string  `json:"paymentStatus"`
	IsCompleted     bool    `json:"isCompleted"`

	// Денормализованные данные
	UserName         string `json:"userName"`
	UserEmail        string `json:"userEmail"`
	DoctorName       string `json:"doctorName"`
	DoctorSpeciality string `json:"doctorSpeciality"`
	DoctorDegree     string `json:"doctorDegree"`
	DoctorFee        int64  `json:"doctorFee"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:               a.ID,
		UserID:           a.UserID,
		DoctorID:         a.DoctorID,
		SlotDate:         a.SlotDate.String(),
		SlotTime:         a.SlotTime.String(),
		Amount:           a.Amount,
		Cancelled:        a.Cancelled,
		Payment:          a.Payment,
		PaymentIntentID:  a.PaymentIntentID,
		PaymentStatus:    string(a.PaymentStatus),
		IsCompleted:      a.IsCompleted,
		UserName:         a.UserName,
		UserEmail:        a.UserEmail,
		DoctorName:       a.DoctorName,
		DoctorSpeciality: a.DoctorSpeciality,
		DoctorDegree:     a.DoctorDegree,
		DoctorFee:        a.DoctorFee,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
