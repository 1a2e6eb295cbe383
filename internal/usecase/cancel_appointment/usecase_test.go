package cancel_appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	doctorRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/doctor"
	reservationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appt         *domain.Appointment
	getErr       error
	markErr      error
	markedCancel []int64
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appt, nil
}

func (f *fakeAppointmentRepo) MarkCancelled(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedCancel = append(f.markedCancel, id)
	f.appt.Cancelled = true
	return nil
}

type fakeDoctorRepo struct {
	err error
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id int64) (*domain.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Doctor{ID: id, Available: true}, nil
}

type fakeReservationRepo struct {
	releaseErr error
	released   []domain.SlotKey
}

func (f *fakeReservationRepo) Release(_ context.Context, key domain.SlotKey) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, key)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func activeAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:       1,
		UserID:   42,
		DoctorID: 7,
		SlotDate: types.SlotDate("10_6_2025"),
		SlotTime: types.TimeLabel("10:00 AM"),
	}
}

func TestExecute_Success(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: activeAppointment()}
	resRepo := &fakeReservationRepo{}
	uc := NewUseCase(apptRepo, &fakeDoctorRepo{}, resRepo, fakeTxManager{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, apptRepo.markedCancel)

	// Слот освобождён
	require.Len(t, resRepo.released, 1)
	assert.Equal(t, domain.SlotKey{
		DoctorID: 7,
		SlotDate: types.SlotDate("10_6_2025"),
		SlotTime: types.TimeLabel("10:00 AM"),
	}, resRepo.released[0])
}

func TestExecute_TwiceReturnsAlreadyCancelled(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: activeAppointment()}
	uc := NewUseCase(apptRepo, &fakeDoctorRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	require.NoError(t, uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42}))

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Len(t, apptRepo.markedCancel, 1)
}

func TestExecute_AccessDenied(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: activeAppointment()}
	uc := NewUseCase(apptRepo, &fakeDoctorRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, apptRepo.markedCancel)
}

// Администратор отменяет чужую запись без проверки владения
func TestExecute_AdminBypassesOwnership(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: activeAppointment()}
	uc := NewUseCase(apptRepo, &fakeDoctorRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, AsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, apptRepo.markedCancel)
}

func TestExecute_CompletedCannotBeCancelled(t *testing.T) {
	appt := activeAppointment()
	appt.IsCompleted = true
	uc := NewUseCase(&fakeAppointmentRepo{appt: appt}, &fakeDoctorRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound},
		&fakeDoctorRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{},
	)

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// Отсутствие врача — восстановимое расхождение, отмена всё равно проходит
func TestExecute_MissingDoctorStillCancels(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: activeAppointment()}
	resRepo := &fakeReservationRepo{}
	uc := NewUseCase(apptRepo, &fakeDoctorRepo{err: doctorRepo.ErrDoctorNotFound}, resRepo, fakeTxManager{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, apptRepo.markedCancel)
	assert.Empty(t, resRepo.released)
}

// Отсутствие резервации — тоже не повод провалить отмену
func TestExecute_MissingReservationStillCancels(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appt: activeAppointment()}
	uc := NewUseCase(
		apptRepo, &fakeDoctorRepo{},
		&fakeReservationRepo{releaseErr: reservationRepo.ErrReservationNotFound},
		fakeTxManager{}, nopLogger{},
	)

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, apptRepo.markedCancel)
}

// Конкурентная отмена: условный UPDATE проигравшего возвращает already cancelled
func TestExecute_ConcurrentCancelLosesRace(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		appt:    activeAppointment(),
		markErr: appointmentRepo.ErrAlreadyCancelled,
	}
	uc := NewUseCase(apptRepo, &fakeDoctorRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 1, UserID: 42})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}
