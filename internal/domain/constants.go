package domain

// Business validation constants
const (
	MinFee = 0
	MaxFee = 1_000_000

	MaxNameLength       = 200
	MaxSpecialityLength = 200
	MaxAboutLength      = 2000
)

// PaymentCurrency валюта всех платежей сервиса
const PaymentCurrency = "usd"
