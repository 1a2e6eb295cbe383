package book_appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reservation"
	profileClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	created   []*domain.Appointment
	createErr error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	appt.ID = int64(len(f.created) + 1)
	f.created = append(f.created, appt)
	return appt, nil
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

type fakeReservationRepo struct {
	reserveErr error
	reserved   []domain.SlotKey
	linked     map[int64]int64
}

func (f *fakeReservationRepo) Reserve(_ context.Context, key domain.SlotKey) (*domain.SlotReservation, error) {
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	f.reserved = append(f.reserved, key)
	return &domain.SlotReservation{
		ID:       int64(len(f.reserved)),
		DoctorID: key.DoctorID,
		SlotDate: key.SlotDate,
		SlotTime: key.SlotTime,
	}, nil
}

func (f *fakeReservationRepo) LinkAppointment(_ context.Context, reservationID, appointmentID int64) error {
	if f.linked == nil {
		f.linked = make(map[int64]int64)
	}
	f.linked[reservationID] = appointmentID
	return nil
}

type fakeProfileClient struct {
	patient *profileClient.Patient
	err     error
}

func (f *fakeProfileClient) GetPatient(_ context.Context, _ int64) (*profileClient.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.patient, nil
}

type fakeTxManager struct {
	// beforeTx имитирует конкурентное изменение состояния между
	// подготовкой бронирования и началом транзакции
	beforeTx func()
}

func (f fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.beforeTx != nil {
		f.beforeTx()
	}
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func validRequest() *Request {
	return &Request{
		UserID:   42,
		DoctorID: 7,
		SlotDate: types.SlotDate("10_6_2025"),
		SlotTime: types.TimeLabel("10:00 AM"),
	}
}

func testDoctor() *domain.Doctor {
	return &domain.Doctor{
		ID:         7,
		Name:       "Dr. Richard James",
		Speciality: "General physician",
		Degree:     "MBBS",
		Fee:        50,
		Available:  true,
	}
}

func testPatient() *profileClient.Patient {
	return &profileClient.Patient{
		ID:    42,
		Name:  "John Doe",
		Email: "john@example.com",
	}
}

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	docRepo *fakeDoctorRepo,
	resRepo *fakeReservationRepo,
	profile *fakeProfileClient,
) *UseCase {
	return NewUseCase(apptRepo, docRepo, resRepo, profile, fakeTxManager{}, nopLogger{})
}

func TestExecute_Success(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(
		apptRepo,
		&fakeDoctorRepo{doctor: testDoctor()},
		resRepo,
		&fakeProfileClient{patient: testPatient()},
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Цена и профили зафиксированы на момент бронирования
	assert.Equal(t, int64(50), resp.Amount)
	assert.Equal(t, "Dr. Richard James", resp.DoctorName)
	assert.Equal(t, string(domain.PaymentStatusNone), resp.PaymentStatus)

	require.Len(t, apptRepo.created, 1)
	created := apptRepo.created[0]
	assert.Equal(t, "John Doe", created.UserName)
	assert.Equal(t, "john@example.com", created.UserEmail)
	assert.Equal(t, int64(50), created.DoctorFee)

	// Слот занят и привязан к записи
	require.Len(t, resRepo.reserved, 1)
	assert.Equal(t, created.ID, resRepo.linked[1])
}

func TestExecute_SlotTaken(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctor: testDoctor()},
		&fakeReservationRepo{reserveErr: reservationRepo.ErrSlotTaken},
		&fakeProfileClient{patient: testPatient()},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

// Из двух бронирований одного слота проходит ровно одно
func TestExecute_ConcurrentDoubleBooking(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(
		apptRepo,
		&fakeDoctorRepo{doctor: testDoctor()},
		resRepo,
		&fakeProfileClient{patient: testPatient()},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Второй запрос на тот же ключ упирается в занятый слот
	resRepo.reserveErr = reservationRepo.ErrSlotTaken
	_, err = uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)

	assert.Len(t, apptRepo.created, 1)
}

func TestExecute_DoctorUnavailable(t *testing.T) {
	doctor := testDoctor()
	doctor.Available = false

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctor: doctor},
		&fakeReservationRepo{},
		&fakeProfileClient{patient: testPatient()},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

// Снятие врача с приёма прямо перед транзакцией бронирования:
// доступность проверяется внутри транзакции, бронирование не проходит
func TestExecute_DoctorTurnsUnavailableBeforeTx(t *testing.T) {
	doctor := testDoctor()
	docRepo := &fakeDoctorRepo{doctor: doctor}
	resRepo := &fakeReservationRepo{}

	uc := NewUseCase(
		&fakeAppointmentRepo{},
		docRepo,
		resRepo,
		&fakeProfileClient{patient: testPatient()},
		fakeTxManager{beforeTx: func() { doctor.Available = false }},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
	assert.Empty(t, resRepo.reserved)
}

func TestExecute_PatientNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctor: testDoctor()},
		&fakeReservationRepo{},
		&fakeProfileClient{err: profileClient.ErrPatientNotFound},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctor: testDoctor()},
		&fakeReservationRepo{},
		&fakeProfileClient{patient: testPatient()},
	)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }},
		{"zero doctor", func(r *Request) { r.DoctorID = 0 }},
		{"empty date", func(r *Request) { r.SlotDate = "" }},
		{"malformed date", func(r *Request) { r.SlotDate = "2025-06-10" }},
		{"empty time", func(r *Request) { r.SlotTime = "" }},
		{"malformed time", func(r *Request) { r.SlotTime = "25:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
