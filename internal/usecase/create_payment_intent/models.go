package create_payment_intent

// Request модель запроса на создание payment intent
type Request struct {
	AppointmentID int64
	UserID        int64
}

// Response данные для завершения оплаты на клиенте
type Response struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`

	// Amount в минорных единицах валюты
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
