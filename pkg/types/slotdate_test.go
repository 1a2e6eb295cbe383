package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotDate_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"10_6_2025", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"1_1_2026", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"31_12_2025", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"29_2_2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)}, // високосный год
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseSlotDate(tt.input)
			require.NoError(t, err)

			parsed, err := d.Time()
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed)
		})
	}
}

func TestParseSlotDate_Invalid(t *testing.T) {
	tests := []string{
		"",
		"2025-06-10",
		"10/6/2025",
		"10_6",
		"10_6_2025_extra",
		"abc_6_2025",
		"10_13_2025", // несуществующий месяц
		"32_1_2025",  // несуществующий день
		"31_2_2025",  // 31 февраля
		"29_2_2025",  // не високосный год
		"10_6_1999",  // год вне диапазона
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSlotDate(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSlotDate)
		})
	}
}

// Написание с ведущими нулями приводится к каноничному: иначе
// "10_06_2025" и "10_6_2025" дали бы два разных ключа одного слота
func TestParseSlotDate_Canonicalizes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10_06_2025", "10_6_2025"},
		{"01_1_2026", "1_1_2026"},
		{"03_06_2025", "3_6_2025"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseSlotDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}

	canonical, err := ParseSlotDate("10_6_2025")
	require.NoError(t, err)
	alias, err := ParseSlotDate("10_06_2025")
	require.NoError(t, err)
	assert.Equal(t, canonical, alias)
}

func TestNewSlotDate_NoLeadingZeros(t *testing.T) {
	d := NewSlotDate(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "3_6_2025", d.String())
	require.NoError(t, d.Validate())
}

func TestSlotDate_IsZero(t *testing.T) {
	assert.True(t, SlotDate("").IsZero())
	assert.False(t, SlotDate("10_6_2025").IsZero())
}
