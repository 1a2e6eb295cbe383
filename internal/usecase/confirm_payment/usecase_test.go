package confirm_payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appt        *domain.Appointment
	getErr      error
	markPaidErr error
	paid        []string
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appt, nil
}

func (f *fakeAppointmentRepo) MarkPaid(_ context.Context, _ int64, intentID string) error {
	if f.markPaidErr != nil {
		return f.markPaidErr
	}
	f.paid = append(f.paid, intentID)
	return nil
}

type fakePaymentClient struct {
	intent *stripeclient.PaymentIntent
	err    error
}

func (f *fakePaymentClient) RetrieveIntent(_ context.Context, _ string) (*stripeclient.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		UserID:          42,
		Amount:          500,
		PaymentIntentID: ptr.Ptr("pi_123"),
		PaymentStatus:   domain.PaymentStatusPending,
	}
}

func succeededIntent() *stripeclient.PaymentIntent {
	return &stripeclient.PaymentIntent{
		ID:     "pi_123",
		Amount: 50000,
		Status: stripeclient.IntentStatusSucceeded,
	}
}

func validRequest() *Request {
	return &Request{AppointmentID: 1, UserID: 42, IntentID: "pi_123"}
}

func TestExecute_Success(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: pendingAppointment()}
	uc := NewUseCase(apptRepo, &fakePaymentClient{intent: succeededIntent()}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"pi_123"}, apptRepo.paid)
}

// Точная проверка суммы: 49999 вместо 50000 — отказ
func TestExecute_AmountMismatch(t *testing.T) {
	intent := succeededIntent()
	intent.Amount = 49999

	apptRepo := &fakeAppointmentRepo{appt: pendingAppointment()}
	uc := NewUseCase(apptRepo, &fakePaymentClient{intent: intent}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Empty(t, apptRepo.paid)
}

func TestExecute_NotSucceeded(t *testing.T) {
	intent := succeededIntent()
	intent.Status = "requires_payment_method"

	apptRepo := &fakeAppointmentRepo{appt: pendingAppointment()}
	uc := NewUseCase(apptRepo, &fakePaymentClient{intent: intent}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNotSucceeded)
	assert.Empty(t, apptRepo.paid)
}

func TestExecute_IntentMismatch(t *testing.T) {
	appt := pendingAppointment()
	appt.PaymentIntentID = ptr.Ptr("pi_other")

	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, &fakePaymentClient{intent: succeededIntent()}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrIntentMismatch)
}

func TestExecute_NoIntentAttached(t *testing.T) {
	appt := pendingAppointment()
	appt.PaymentIntentID = nil

	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, &fakePaymentClient{intent: succeededIntent()}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrIntentMismatch)
}

// Повторное подтверждение уже оплаченной записи — no-op
func TestExecute_AlreadyPaidIsNoOp(t *testing.T) {
	appt := pendingAppointment()
	appt.Payment = true
	appt.PaymentStatus = domain.PaymentStatusCompleted

	client := &fakePaymentClient{err: stripeclient.ErrPaymentProcessor}
	apptRepo := &fakeAppointmentRepo{appt: appt}
	uc := NewUseCase(apptRepo, client, nopLogger{})

	// Процессор даже не вызывается
	err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, apptRepo.paid)
}

// Гонка с webhook: MarkPaid вернул already paid — считаем успехом
func TestExecute_RaceWithWebhookIsNoOp(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		appt:        pendingAppointment(),
		markPaidErr: appointmentRepo.ErrAlreadyPaid,
	}
	uc := NewUseCase(apptRepo, &fakePaymentClient{intent: succeededIntent()}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_CancelledAppointment(t *testing.T) {
	appt := pendingAppointment()
	appt.Cancelled = true

	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, &fakePaymentClient{intent: succeededIntent()}, nopLogger{})

	err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAppointmentCancelled)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{appt: pendingAppointment()}, &fakePaymentClient{intent: succeededIntent()}, nopLogger{})

	req := validRequest()
	req.UserID = 99

	err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_ProcessorFailure(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{appt: pendingAppointment()},
		&fakePaymentClient{err: stripeclient.ErrPaymentProcessor},
		nopLogger{},
	)

	err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPaymentProcessor)
}
