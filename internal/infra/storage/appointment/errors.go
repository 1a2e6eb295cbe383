package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrAlreadyCancelled возвращается при переходе над уже отменённой записью
	ErrAlreadyCancelled = errors.New("appointment.repository: appointment already cancelled")

	// ErrAlreadyCompleted возвращается при переходе над завершённой записью
	ErrAlreadyCompleted = errors.New("appointment.repository: appointment already completed")

	// ErrAlreadyPaid возвращается, когда оплата уже завершена.
	// Для идемпотентных путей (webhook) вызывающий код трактует это как no-op
	ErrAlreadyPaid = errors.New("appointment.repository: appointment already paid")

	// ErrIntentAlreadyAttached возвращается при попытке привязать второй
	// payment intent: поле payment_intent_id проставляется один раз
	ErrIntentAlreadyAttached = errors.New("appointment.repository: payment intent already attached")

	// ErrIntentMismatch возвращается, когда переход ссылается не на тот
	// payment intent, что привязан к записи
	ErrIntentMismatch = errors.New("appointment.repository: payment intent mismatch")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
