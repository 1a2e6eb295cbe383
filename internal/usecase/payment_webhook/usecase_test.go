package payment_webhook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	markPaidErr   error
	markFailedErr error
	paid          []int64
	failed        []int64
}

func (f *fakeAppointmentRepo) MarkPaid(_ context.Context, id int64, _ string) error {
	if f.markPaidErr != nil {
		return f.markPaidErr
	}
	f.paid = append(f.paid, id)
	return nil
}

func (f *fakeAppointmentRepo) MarkPaymentFailed(_ context.Context, id int64, _ string) error {
	if f.markFailedErr != nil {
		return f.markFailedErr
	}
	f.failed = append(f.failed, id)
	return nil
}

type fakePaymentClient struct {
	event *stripeclient.WebhookEvent
	err   error
}

func (f *fakePaymentClient) VerifyWebhook(_ []byte, _ string) (*stripeclient.WebhookEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func succeededEvent() *stripeclient.WebhookEvent {
	return &stripeclient.WebhookEvent{
		ID:   "evt_1",
		Type: stripeclient.EventIntentSucceeded,
		Intent: &stripeclient.PaymentIntent{
			ID:       "pi_123",
			Amount:   50000,
			Status:   stripeclient.IntentStatusSucceeded,
			Metadata: map[string]string{stripeclient.MetadataAppointmentID: "1"},
		},
	}
}

func failedEvent() *stripeclient.WebhookEvent {
	e := succeededEvent()
	e.Type = stripeclient.EventIntentFailed
	e.Intent.Status = "requires_payment_method"
	return e
}

func TestExecute_SucceededMarksPaid(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: succeededEvent()}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, apptRepo.paid)
}

func TestExecute_FailedMarksPaymentFailed(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: failedEvent()}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, apptRepo.failed)
}

// Повторная доставка успеха — no-op, событие подтверждается
func TestExecute_DuplicateSucceededIsNoOp(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{markPaidErr: appointmentRepo.ErrAlreadyPaid}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: succeededEvent()}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
	assert.Empty(t, apptRepo.paid)
}

// Запоздавший failed после успешной оплаты не понижает статус
func TestExecute_FailedAfterPaidDoesNotDowngrade(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{markFailedErr: appointmentRepo.ErrAlreadyPaid}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: failedEvent()}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
	assert.Empty(t, apptRepo.failed)
}

func TestExecute_InvalidSignature(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakePaymentClient{err: stripeclient.ErrSignatureInvalid}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "bad-sig")
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

// Неподписанные типы событий подтверждаются без обработки
func TestExecute_UnknownEventTypeIsAcked(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: &stripeclient.WebhookEvent{
		ID:   "evt_2",
		Type: "charge.refunded",
	}}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
	assert.Empty(t, apptRepo.paid)
	assert.Empty(t, apptRepo.failed)
}

// События без correlation-метаданных подтверждаются с WARN
func TestExecute_MissingMetadataIsAcked(t *testing.T) {
	event := succeededEvent()
	event.Intent.Metadata = nil

	apptRepo := &fakeAppointmentRepo{}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: event}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
	assert.Empty(t, apptRepo.paid)
}

func TestExecute_MalformedMetadataIsAcked(t *testing.T) {
	event := succeededEvent()
	event.Intent.Metadata[stripeclient.MetadataAppointmentID] = "not-a-number"

	apptRepo := &fakeAppointmentRepo{}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: event}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
	assert.Empty(t, apptRepo.paid)
}

// Событие для несуществующей записи подтверждается, а не ретраится вечно
func TestExecute_UnknownAppointmentIsAcked(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{markPaidErr: appointmentRepo.ErrAppointmentNotFound}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: succeededEvent()}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
}

// Внутренняя ошибка БД — событие не подтверждается, процессор повторит
func TestExecute_StorageFailureIsRetried(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{markPaidErr: appointmentRepo.ErrExecQuery}
	uc := NewUseCase(apptRepo, &fakePaymentClient{event: succeededEvent()}, nopLogger{})

	err := uc.Execute(context.Background(), []byte("{}"), "sig")
	assert.ErrorIs(t, err, ErrInternal)
}
