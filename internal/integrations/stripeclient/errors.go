package stripeclient

import "errors"

var (
	// ErrIntentNotFound возвращается, когда payment intent не найден у процессора
	ErrIntentNotFound = errors.New("stripe client: payment intent not found")

	// ErrPaymentProcessor возвращается при ошибках процессора, включая
	// таймауты. Для вызывающего кода это retryable-ошибка, никогда не успех
	ErrPaymentProcessor = errors.New("stripe client: payment processor error")

	// ErrSignatureInvalid возвращается, когда подпись или формат webhook-события
	// не прошли проверку. Такое событие не применяется
	ErrSignatureInvalid = errors.New("stripe client: invalid webhook signature")
)
