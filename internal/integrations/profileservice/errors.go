package profileservice

import "errors"

var (
	// ErrPatientNotFound возвращается, когда профиль пациента не найден
	ErrPatientNotFound = errors.New("profileservice client: patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")
)
