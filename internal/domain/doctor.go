package domain

import "time"

// Doctor represents a doctor profile
type Doctor struct {
	ID         int64
	Name       string
	Email      string
	Speciality string
	Degree     string
	Experience string
	About      string

	// Fee цена консультации в целых единицах валюты
	Fee int64

	// Available флаг доступности для новых бронирований.
	// Занятость конкретных слотов живёт в slot_reservations, не здесь
	Available bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
