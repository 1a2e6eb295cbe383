package appointments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appt       *domain.Appointment
	getErr     error
	byUser     []*domain.Appointment
	filtered   []*domain.Appointment
	lastFilter domain.AppointmentsFilter
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.appt, nil
}

func (f *fakeAppointmentRepo) GetByUserID(_ context.Context, _ int64) ([]*domain.Appointment, error) {
	return f.byUser, nil
}

func (f *fakeAppointmentRepo) GetAllWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.filtered, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            1,
		UserID:        42,
		DoctorID:      7,
		SlotDate:      types.SlotDate("10_6_2025"),
		SlotTime:      types.TimeLabel("10:00 AM"),
		Amount:        50,
		PaymentStatus: domain.PaymentStatusNone,
	}
}

func TestGetByID_Owner(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{appt: testAppointment()}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 42, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "10_6_2025", resp.SlotDate)
}

func TestGetByID_OtherUserDenied(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{appt: testAppointment()}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, 99, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_AdminSeesAny(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{appt: testAppointment()}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 0, true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.UserID)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, 42, false)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAppointments(t *testing.T) {
	repo := &fakeAppointmentRepo{byUser: []*domain.Appointment{testAppointment()}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetUserAppointments(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}

func TestGetUserAppointments_InvalidUser(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{}, nopLogger{})

	_, err := svc.GetUserAppointments(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetAllAppointments_BuildsFilter(t *testing.T) {
	repo := &fakeAppointmentRepo{filtered: []*domain.Appointment{testAppointment()}}
	svc := NewService(repo, nopLogger{})

	doctorID := int64(7)
	slotDate := "10_6_2025"
	resp, err := svc.GetAllAppointments(context.Background(), &models.GetAllAppointmentsRequest{
		DoctorID:         &doctorID,
		SlotDate:         &slotDate,
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	require.NotNil(t, repo.lastFilter.DoctorID)
	assert.Equal(t, int64(7), *repo.lastFilter.DoctorID)
	require.NotNil(t, repo.lastFilter.SlotDate)
	assert.Equal(t, types.SlotDate("10_6_2025"), *repo.lastFilter.SlotDate)
	assert.True(t, repo.lastFilter.IncludeCancelled)
}

func TestGetAllAppointments_InvalidSlotDate(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{}, nopLogger{})

	bad := "2025-06-10"
	_, err := svc.GetAllAppointments(context.Background(), &models.GetAllAppointmentsRequest{SlotDate: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
