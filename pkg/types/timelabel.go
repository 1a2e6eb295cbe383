package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeLabel возвращается при некорректном формате времени слота
var ErrInvalidTimeLabel = errors.New("types: invalid time label format, expected H:MM AM/PM")

// timeLabelLayout формат меток времени слотов ("10:00 AM", "4:30 PM")
const timeLabelLayout = "3:04 PM"

// TimeLabel метка времени слота в 12-часовом формате ("10:00 AM")
type TimeLabel string

// ParseTimeLabel валидирует строку и возвращает TimeLabel в каноничном
// написании: "10:00 am" и "03:00 PM" приводятся к "10:00 AM" и "3:00 PM",
// чтобы разные написания одного времени не давали разных ключей слота
func ParseTimeLabel(s string) (TimeLabel, error) {
	t, err := time.Parse(timeLabelLayout, strings.ToUpper(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeLabel, s)
	}
	return TimeLabel(t.Format(timeLabelLayout)), nil
}

// Validate проверяет формат метки времени
func (l TimeLabel) Validate() error {
	if _, err := time.Parse(timeLabelLayout, strings.ToUpper(string(l))); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeLabel, string(l))
	}
	return nil
}

// IsZero сообщает, что метка времени не задана
func (l TimeLabel) IsZero() bool {
	return l == ""
}

// String возвращает строковое представление метки
func (l TimeLabel) String() string {
	return string(l)
}
