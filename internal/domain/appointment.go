package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// PaymentStatus represents the payment state of an appointment
type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = "none"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Appointment represents a booked consultation slot with a doctor
type Appointment struct {
	ID       int64
	UserID   int64
	DoctorID int64

	// Слот фиксируется при создании и не меняется
	SlotDate types.SlotDate
	SlotTime types.TimeLabel

	// Amount цена консультации на момент бронирования, в целых единицах валюты
	Amount int64

	Cancelled       bool
	Payment         bool
	PaymentIntentID *string
	PaymentStatus   PaymentStatus
	IsCompleted     bool

	// Denormalized snapshots for history (без чувствительных полей
	// и без данных о занятых слотах врача)
	UserName         string
	UserEmail        string
	DoctorName       string
	DoctorSpeciality string
	DoctorDegree     string
	DoctorFee        int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AmountMinorUnits returns the amount in minor currency units (cents),
// the unit the payment processor operates in
func (a *Appointment) AmountMinorUnits() int64 {
	return a.Amount * 100
}

// IsTerminal returns true if no further transitions are valid
func (a *Appointment) IsTerminal() bool {
	return a.Cancelled || a.IsCompleted
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.Cancelled && !a.IsCompleted
}

// CanAcceptPayment returns true if a payment intent may be created
func (a *Appointment) CanAcceptPayment() bool {
	return !a.Cancelled && !a.IsCompleted && !a.Payment
}

// IsPaid returns true if the payment has been completed
func (a *Appointment) IsPaid() bool {
	return a.Payment && a.PaymentStatus == PaymentStatusCompleted
}

// AppointmentsFilter фильтр для административной выборки записей
type AppointmentsFilter struct {
	DoctorID         *int64
	UserID           *int64
	SlotDate         *types.SlotDate
	IncludeCancelled bool
}
