package create_payment_intent

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_payment_intent: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("create_payment_intent: appointment not found")

	// ErrAccessDenied возвращается, когда запись принадлежит другому пациенту
	ErrAccessDenied = errors.New("create_payment_intent: access denied")

	// ErrAppointmentCancelled возвращается при попытке оплатить отменённую запись
	ErrAppointmentCancelled = errors.New("create_payment_intent: appointment is cancelled")

	// ErrAlreadyPaid возвращается, когда запись уже оплачена
	ErrAlreadyPaid = errors.New("create_payment_intent: appointment already paid")

	// ErrDoctorUnavailable возвращается, когда врач снят с приёма
	ErrDoctorUnavailable = errors.New("create_payment_intent: doctor is unavailable")

	// ErrPaymentProcessor возвращается при сбое платёжного процессора
	ErrPaymentProcessor = errors.New("create_payment_intent: payment processor failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_intent: internal error")
)
