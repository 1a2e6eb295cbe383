package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSlotDate возвращается при некорректном формате даты слота
var ErrInvalidSlotDate = errors.New("types: invalid slot date format, expected D_M_YYYY")

// SlotDate дата слота в формате "D_M_YYYY" (например, "10_6_2025").
// Формат исторический, пришёл из клиентского календаря: день и месяц
// без ведущих нулей, разделитель — подчёркивание
type SlotDate string

// NewSlotDate создает SlotDate из time.Time
func NewSlotDate(t time.Time) SlotDate {
	return SlotDate(fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year()))
}

// ParseSlotDate валидирует строку и возвращает SlotDate в каноничном
// написании: "10_06_2025" и "10_6_2025" — один и тот же ключ слота,
// поэтому ведущие нули отбрасываются при разборе
func ParseSlotDate(s string) (SlotDate, error) {
	t, err := SlotDate(s).Time()
	if err != nil {
		return "", err
	}
	return NewSlotDate(t), nil
}

// Validate проверяет формат и календарную корректность даты
func (d SlotDate) Validate() error {
	_, err := d.Time()
	return err
}

// Time конвертирует SlotDate в time.Time (полночь UTC)
func (d SlotDate) Time() (time.Time, error) {
	parts := strings.Split(string(d), "_")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotDate, string(d))
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotDate, string(d))
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotDate, string(d))
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotDate, string(d))
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 2000 || year > 2200 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotDate, string(d))
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует некорректные даты (31_2_2025 -> 3 марта),
	// поэтому проверяем round-trip
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlotDate, string(d))
	}
	return t, nil
}

// IsZero сообщает, что дата не задана
func (d SlotDate) IsZero() bool {
	return d == ""
}

// String возвращает строковое представление даты
func (d SlotDate) String() string {
	return string(d)
}
