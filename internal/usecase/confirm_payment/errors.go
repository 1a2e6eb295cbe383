package confirm_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("confirm_payment: appointment not found")

	// ErrAccessDenied возвращается, когда запись принадлежит другому пациенту
	ErrAccessDenied = errors.New("confirm_payment: access denied")

	// ErrAppointmentCancelled возвращается при подтверждении оплаты отменённой записи
	ErrAppointmentCancelled = errors.New("confirm_payment: appointment is cancelled")

	// ErrIntentMismatch возвращается, когда intent не привязан к этой записи
	ErrIntentMismatch = errors.New("confirm_payment: payment intent mismatch")

	// ErrNotSucceeded возвращается, когда процессор не подтверждает успех оплаты
	ErrNotSucceeded = errors.New("confirm_payment: payment not succeeded")

	// ErrAmountMismatch возвращается при расхождении суммы intent с ценой записи
	ErrAmountMismatch = errors.New("confirm_payment: payment amount mismatch")

	// ErrPaymentProcessor возвращается при сбое платёжного процессора
	ErrPaymentProcessor = errors.New("confirm_payment: payment processor failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
