package book_appointment

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата слота указана и корректна
	if req.SlotDate.IsZero() {
		return fmt.Errorf("%w: slotDate is required", ErrInvalidInput)
	}
	if err := req.SlotDate.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotDate format: %v", ErrInvalidInput, err)
	}

	// Проверяем, что время слота указано и корректно
	if req.SlotTime.IsZero() {
		return fmt.Errorf("%w: slotTime is required", ErrInvalidInput)
	}
	if err := req.SlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotTime format: %v", ErrInvalidInput, err)
	}

	return nil
}
