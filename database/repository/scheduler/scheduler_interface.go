package schedulerRepo

import (
	"context"
	"errors"

	"agendamento/models"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("record not found")

// BookingFilter narrows ListBookings. Zero values match everything.
type BookingFilter struct {
	CityID int
	Status string
	Date   string
	Time   string
}

type SchedulerRepository interface {
	// EnsureSchema creates tables or indexes and seeds the fixed cities.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error

	ListCities(ctx context.Context) ([]models.City, error)
	GetCity(ctx context.Context, id int) (*models.City, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int) (*models.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	// UpsertBooking inserts or replaces a booking keeping its id.
	UpsertBooking(ctx context.Context, booking *models.Booking) error

	CreateUnavailability(ctx context.Context, u *models.Unavailability) error
	// ListUnavailabilities returns blocks for a city, optionally on one date.
	ListUnavailabilities(ctx context.Context, cityID int, date string) ([]models.Unavailability, error)
	// UpsertUnavailability is keyed by (city_id, unavailable_date).
	UpsertUnavailability(ctx context.Context, u *models.Unavailability) error

	Counts(ctx context.Context) (models.Counts, error)
}
