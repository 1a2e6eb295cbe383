package create_payment_intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	doctorRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/doctor"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appt      *domain.Appointment
	getErr    error
	attachErr error
	attached  []string
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appt, nil
}

func (f *fakeAppointmentRepo) AttachPaymentIntent(_ context.Context, _ int64, intentID string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached = append(f.attached, intentID)
	f.appt.PaymentIntentID = &intentID
	return nil
}

type fakeDoctorRepo struct {
	doctor *domain.Doctor
	err    error
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, _ int64) (*domain.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doctor, nil
}

type fakePaymentClient struct {
	createdAmounts []int64
	createErr      error
	retrieved      *stripeclient.PaymentIntent
	retrieveErr    error
}

func (f *fakePaymentClient) CreateIntent(_ context.Context, amount int64, currency string, appointmentID, userID int64) (*stripeclient.PaymentIntent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdAmounts = append(f.createdAmounts, amount)
	return &stripeclient.PaymentIntent{
		ID:           "pi_new",
		ClientSecret: "pi_new_secret",
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (f *fakePaymentClient) RetrieveIntent(_ context.Context, intentID string) (*stripeclient.PaymentIntent, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	if f.retrieved != nil {
		return f.retrieved, nil
	}
	return &stripeclient.PaymentIntent{ID: intentID, ClientSecret: intentID + "_secret"}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func payableAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:       1,
		UserID:   42,
		DoctorID: 7,
		Amount:   500,
	}
}

func availableDoctor() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctor: &domain.Doctor{ID: 7, Available: true}}
}

func validRequest() *Request {
	return &Request{AppointmentID: 1, UserID: 42}
}

func TestExecute_CreatesIntentInMinorUnits(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: payableAppointment()}
	client := &fakePaymentClient{}
	uc := NewUseCase(apptRepo, availableDoctor(), client, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 500 единиц валюты -> 50000 минорных
	assert.Equal(t, []int64{50000}, client.createdAmounts)
	assert.Equal(t, "pi_new", resp.IntentID)
	assert.Equal(t, "pi_new_secret", resp.ClientSecret)
	assert.Equal(t, []string{"pi_new"}, apptRepo.attached)
}

// Повторный запрос возвращает уже привязанный intent, не создавая новый
func TestExecute_ReusesAttachedIntent(t *testing.T) {
	appt := payableAppointment()
	appt.PaymentIntentID = ptr.Ptr("pi_existing")

	client := &fakePaymentClient{}
	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, availableDoctor(), client, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Empty(t, client.createdAmounts)
	assert.Equal(t, "pi_existing", resp.IntentID)
	assert.Equal(t, "pi_existing_secret", resp.ClientSecret)
}

// Проигравший гонку привязки получает intent победителя
func TestExecute_LostAttachRaceReturnsWinner(t *testing.T) {
	appt := payableAppointment()
	winner := "pi_winner"

	apptRepo := &fakeAppointmentRepo{appt: appt, attachErr: appointmentRepo.ErrIntentAlreadyAttached}
	client := &fakePaymentClient{}
	uc := NewUseCase(apptRepo, availableDoctor(), client, nopLogger{})

	// К моменту перечитывания победитель уже привязал свой intent
	appt.PaymentIntentID = &winner

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "pi_winner", resp.IntentID)
}

func TestExecute_CancelledAppointment(t *testing.T) {
	appt := payableAppointment()
	appt.Cancelled = true

	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, availableDoctor(), &fakePaymentClient{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAppointmentCancelled)
}

func TestExecute_AlreadyPaid(t *testing.T) {
	appt := payableAppointment()
	appt.Payment = true

	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, availableDoctor(), &fakePaymentClient{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{appt: payableAppointment()}, availableDoctor(), &fakePaymentClient{}, nopLogger{})

	req := validRequest()
	req.UserID = 99

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound},
		availableDoctor(),
		&fakePaymentClient{}, nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_DoctorUnavailable(t *testing.T) {
	client := &fakePaymentClient{}
	uc := NewUseCase(
		&fakeAppointmentRepo{appt: payableAppointment()},
		&fakeDoctorRepo{doctor: &domain.Doctor{ID: 7, Available: false}},
		client, nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
	assert.Empty(t, client.createdAmounts)
}

func TestExecute_DoctorMissing(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{appt: payableAppointment()},
		&fakeDoctorRepo{err: doctorRepo.ErrDoctorNotFound},
		&fakePaymentClient{}, nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestExecute_ProcessorFailure(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{appt: payableAppointment()},
		availableDoctor(),
		&fakePaymentClient{createErr: stripeclient.ErrPaymentProcessor},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPaymentProcessor)
}
