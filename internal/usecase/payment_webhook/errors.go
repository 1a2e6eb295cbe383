package payment_webhook

import "errors"

var (
	// ErrSignatureInvalid возвращается, когда подпись события не проходит проверку
	ErrSignatureInvalid = errors.New("payment_webhook: invalid event signature")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("payment_webhook: internal error")
)
