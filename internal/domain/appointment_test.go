package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_AmountMinorUnits(t *testing.T) {
	appt := &Appointment{Amount: 500}
	assert.Equal(t, int64(50000), appt.AmountMinorUnits())

	free := &Appointment{Amount: 0}
	assert.Equal(t, int64(0), free.AmountMinorUnits())
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	tests := []struct {
		name        string
		cancelled   bool
		isCompleted bool
		want        bool
	}{
		{"active", false, false, true},
		{"cancelled", true, false, false},
		{"completed", false, true, false},
		{"cancelled and completed", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &Appointment{Cancelled: tt.cancelled, IsCompleted: tt.isCompleted}
			assert.Equal(t, tt.want, appt.CanBeCancelled())
			assert.Equal(t, !tt.want, appt.IsTerminal())
		})
	}
}

func TestAppointment_CanAcceptPayment(t *testing.T) {
	assert.True(t, (&Appointment{}).CanAcceptPayment())
	assert.False(t, (&Appointment{Cancelled: true}).CanAcceptPayment())
	assert.False(t, (&Appointment{IsCompleted: true}).CanAcceptPayment())
	assert.False(t, (&Appointment{Payment: true}).CanAcceptPayment())
}

func TestAppointment_IsPaid(t *testing.T) {
	assert.True(t, (&Appointment{Payment: true, PaymentStatus: PaymentStatusCompleted}).IsPaid())
	assert.False(t, (&Appointment{Payment: false, PaymentStatus: PaymentStatusCompleted}).IsPaid())
	assert.False(t, (&Appointment{Payment: true, PaymentStatus: PaymentStatusPending}).IsPaid())
}
