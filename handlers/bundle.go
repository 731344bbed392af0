package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle is everything routes.RegisterRoutes wires.
type HandlerBundle struct {
	// Cities and bookings.
	ListCities         gin.HandlerFunc
	ListBookings       gin.HandlerFunc
	CreateBooking      gin.HandlerFunc
	GetBooking         gin.HandlerFunc
	UpdateBooking      gin.HandlerFunc
	CancelBooking      gin.HandlerFunc
	ListBookingsByCity gin.HandlerFunc

	// Unavailabilities.
	CreateUnavailability gin.HandlerFunc
	ListUnavailabilities gin.HandlerFunc

	// Calendar overlay.
	MonthCalendar gin.HandlerFunc
	Hours         gin.HandlerFunc
	Availability  gin.HandlerFunc
	Stats         gin.HandlerFunc

	// Admin endpoints.
	AdminKey     string
	AdminHandler *AdminHandler

	Health gin.HandlerFunc

	// StaticDir is served at / when it exists.
	StaticDir string
}

// NewHandlerBundle assembles the bundle from its handlers.
func NewHandlerBundle(bh *BookingHandler, ah *AdminHandler, adminKey, staticDir string) *HandlerBundle {
	return &HandlerBundle{
		ListCities:           bh.ListCities,
		ListBookings:         bh.ListBookings,
		CreateBooking:        bh.CreateBooking,
		GetBooking:           bh.GetBooking,
		UpdateBooking:        bh.UpdateBooking,
		CancelBooking:        bh.CancelBooking,
		ListBookingsByCity:   bh.ListBookingsByCity,
		CreateUnavailability: bh.CreateUnavailability,
		ListUnavailabilities: bh.ListUnavailabilities,
		MonthCalendar:        bh.MonthCalendar,
		Hours:                bh.Hours,
		Availability:         bh.Availability,
		Stats:                bh.Stats,
		AdminKey:             adminKey,
		AdminHandler:         ah,
		Health:               Health,
		StaticDir:            staticDir,
	}
}
