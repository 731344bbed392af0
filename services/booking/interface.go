package booking

import (
	"context"

	"agendamento/models"
)

// BookingService is the booking store seen by the HTTP layer.
type BookingService interface {
	ListCities(ctx context.Context) ([]models.City, error)
	GetCity(ctx context.Context, id int) (*models.City, error)

	CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id int) (*models.Booking, error)
	ListBookings(ctx context.Context, status string) ([]models.Booking, error)
	ListBookingsByCity(ctx context.Context, cityID int) ([]models.Booking, error)
	CancelBooking(ctx context.Context, id int, reason string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id int, patch models.BookingPatch) (*models.Booking, error)

	CreateUnavailability(ctx context.Context, in models.UnavailabilityInput) (*models.Unavailability, error)
	ListUnavailabilities(ctx context.Context, cityID int) ([]models.Unavailability, error)

	Availability(ctx context.Context, cityID int, date string) (*DayAvailability, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Counts(ctx context.Context) (models.Counts, error)
}

// Mirror receives committed writes. Implementations must not block.
type Mirror interface {
	BookingCreated(b models.Booking)
	BookingChanged(b models.Booking)
	UnavailabilityCreated(u models.Unavailability)
}

// DayAvailability is the resolved state of every slot of a day.
type DayAvailability struct {
	City  models.City       `json:"city"`
	Date  string            `json:"date"`
	Slots []models.SlotView `json:"slots"`
}
