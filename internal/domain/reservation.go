package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotReservation одна занятая ячейка (врач, дата, время).
// Таблица с уникальным ключом (doctor_id, slot_date, slot_time) —
// единственный источник истины о занятости слота
type SlotReservation struct {
	ID       int64
	DoctorID int64
	SlotDate types.SlotDate
	SlotTime types.TimeLabel

	// AppointmentID запись, ради которой слот занят.
	// Проставляется в той же транзакции, что и создание записи
	AppointmentID *int64

	CreatedAt time.Time
}

// SlotKey ключ слота — точка конкуренции всего сервиса
type SlotKey struct {
	DoctorID int64
	SlotDate types.SlotDate
	SlotTime types.TimeLabel
}
