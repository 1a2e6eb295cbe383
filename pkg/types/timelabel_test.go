package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeLabel_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10:00 AM", "10:00 AM"},
		{"4:30 PM", "4:30 PM"},
		{"12:00 PM", "12:00 PM"},
		{"12:30 AM", "12:30 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, err := ParseTimeLabel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.String())
		})
	}
}

// Разные написания одного времени дают один ключ слота
func TestParseTimeLabel_Canonicalizes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10:00 am", "10:00 AM"},
		{"9:15 Am", "9:15 AM"},
		{"03:00 PM", "3:00 PM"},
		{"04:30 pm", "4:30 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, err := ParseTimeLabel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.String())
		})
	}

	canonical, err := ParseTimeLabel("10:00 AM")
	require.NoError(t, err)
	alias, err := ParseTimeLabel("10:00 am")
	require.NoError(t, err)
	assert.Equal(t, canonical, alias)
}

func TestParseTimeLabel_Invalid(t *testing.T) {
	tests := []string{
		"",
		"10:00",     // без AM/PM
		"22:00 PM",  // 24-часовой формат
		"10:60 AM",  // несуществующие минуты
		"0:30 AM",   // час вне 12-часового диапазона
		"morning",
		"10.00 AM",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimeLabel(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTimeLabel)
		})
	}
}

func TestTimeLabel_IsZero(t *testing.T) {
	assert.True(t, TimeLabel("").IsZero())
	assert.False(t, TimeLabel("10:00 AM").IsZero())
}
