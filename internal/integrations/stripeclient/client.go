package stripeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платёжного процессора (Stripe).
// Все вызовы ограничены таймаутом HTTP-клиента: зависший процессор
// превращается в retryable-ошибку, а не в зависший запрос
type Client struct {
	api           *client.API
	webhookSecret string
	log           Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(secretKey, webhookSecret string, timeout time.Duration, log Logger) *Client {
	backends := stripe.NewBackends(&http.Client{Timeout: timeout})

	api := &client.API{}
	api.Init(secretKey, backends)

	return &Client{
		api:           api,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// CreateIntent создает payment intent на сумму amount (в минорных единицах),
// помечая его correlation-метаданными записи
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string, appointmentID, userID int64) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata(MetadataAppointmentID, strconv.FormatInt(appointmentID, 10))
	params.AddMetadata(MetadataUserID, strconv.FormatInt(userID, 10))

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, c.wrapError("CreateIntent", err)
	}

	return fromStripeIntent(intent), nil
}

// RetrieveIntent получает актуальное состояние payment intent у процессора.
// Статусу, который сообщил клиент, сервис не доверяет никогда
func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	intent, err := c.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, c.wrapError("RetrieveIntent", err)
	}

	return fromStripeIntent(intent), nil
}

// VerifyWebhook проверяет подпись события асинхронного канала и парсит его.
// Неверифицируемое или некорректное событие возвращает ErrSignatureInvalid
func (c *Client) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	result := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch result.Type {
	case EventIntentSucceeded, EventIntentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("%w: failed to parse intent payload: %v", ErrSignatureInvalid, err)
		}
		result.Intent = fromStripeIntent(&intent)
	}

	return result, nil
}

func (c *Client) wrapError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode == http.StatusNotFound {
			return ErrIntentNotFound
		}
		c.log.Error("Stripe %s failed: code=%s, status=%d: %v", op, stripeErr.Code, stripeErr.HTTPStatusCode, err)
		return fmt.Errorf("%w: %s: %v", ErrPaymentProcessor, op, err)
	}

	// Сетевые ошибки и таймауты
	c.log.Error("Stripe %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrPaymentProcessor, op, err)
}

func fromStripeIntent(intent *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		Status:       string(intent.Status),
		Metadata:     intent.Metadata,
	}
}
