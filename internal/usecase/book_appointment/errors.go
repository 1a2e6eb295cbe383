package book_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrPatientNotFound возвращается, когда профиль пациента не найден
	ErrPatientNotFound = errors.New("book_appointment: patient not found")

	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("book_appointment: doctor not found")

	// ErrDoctorUnavailable возвращается, когда врач недоступен для бронирования
	ErrDoctorUnavailable = errors.New("book_appointment: doctor is not available")

	// ErrSlotTaken возвращается, когда слот уже занят
	ErrSlotTaken = errors.New("book_appointment: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
