package stripeclient

// Статусы payment intent, которые различает сервис
const (
	IntentStatusSucceeded = "succeeded"
)

// Типы событий асинхронных уведомлений
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// Ключи correlation-метаданных intent
const (
	MetadataAppointmentID = "appointment_id"
	MetadataUserID        = "user_id"
)

// PaymentIntent локальная проекция payment intent процессора.
// Usecase-слой работает с ней, а не с типами SDK
type PaymentIntent struct {
	ID           string
	ClientSecret string

	// Amount в минорных единицах валюты (центах)
	Amount   int64
	Currency string
	Status   string
	Metadata map[string]string
}

// WebhookEvent верифицированное событие асинхронного канала
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *PaymentIntent
}
