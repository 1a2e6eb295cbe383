package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateDoctorRequest запрос на создание профиля врача
type CreateDoctorRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Speciality string `json:"speciality"`
	Degree     string `json:"degree"`
	Experience string `json:"experience"`
	About      string `json:"about"`
	Fee        int64  `json:"fee"`
}

// ToDomain конвертирует request в domain модель.
// Новый врач создаётся доступным для бронирований
func (r *CreateDoctorRequest) ToDomain() *domain.Doctor {
	return &domain.Doctor{
		Name:       r.Name,
		Email:      r.Email,
		Speciality: r.Speciality,
		Degree:     r.Degree,
		Experience: r.Experience,
		About:      r.About,
		Fee:        r.Fee,
		Available:  true,
	}
}

// SetAvailabilityRequest запрос на смену доступности врача
type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

// Response модели

// DoctorResponse ответ с публичным профилем врача
type DoctorResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
	Degree     string `json:"degree"`
	Experience string `json:"experience"`
	About      string `json:"about"`
	Fee        int64  `json:"fee"`
	Available  bool   `json:"available"`

	CreatedAt time.Time `json:"createdAt"`
}

// DoctorListResponse ответ со списком врачей
type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
}

// BookedSlotsResponse занятые слоты врача, сгруппированные по датам.
// Ключ — дата слота ("10_6_2025"), значение — метки времени ("10:00 AM")
type BookedSlotsResponse struct {
	DoctorID    int64               `json:"doctorId"`
	BookedSlots map[string][]string `json:"bookedSlots"`
}

// Методы конвертации

// FromDomainDoctor конвертирует domain модель в DTO.
// Email в публичный профиль не попадает
func FromDomainDoctor(d *domain.Doctor) *DoctorResponse {
	if d == nil {
		return nil
	}

	return &DoctorResponse{
		ID:         d.ID,
		Name:       d.Name,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Experience: d.Experience,
		About:      d.About,
		Fee:        d.Fee,
		Available:  d.Available,
		CreatedAt:  d.CreatedAt,
	}
}

// FromDomainDoctorList конвертирует список domain моделей в DTO
func FromDomainDoctorList(list []*domain.Doctor) *DoctorListResponse {
	resp := &DoctorListResponse{
		Doctors: make([]DoctorResponse, 0, len(list)),
	}
	for _, d := range list {
		resp.Doctors = append(resp.Doctors, *FromDomainDoctor(d))
	}
	return resp
}

// FromDomainReservations группирует резервации по датам
func FromDomainReservations(doctorID int64, list []*domain.SlotReservation) *BookedSlotsResponse {
	resp := &BookedSlotsResponse{
		DoctorID:    doctorID,
		BookedSlots: make(map[string][]string),
	}
	for _, r := range list {
		date := r.SlotDate.String()
		resp.BookedSlots[date] = append(resp.BookedSlots[date], r.SlotTime.String())
	}
	return resp
}
