package models

import (
	"strings"
	"time"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a reserved delivery slot.
type Booking struct {
	ID            int       `gorm:"primaryKey" bson:"id" json:"id"`
	CityID        int       `gorm:"index;not null" bson:"city_id" json:"city_id"`
	CompanyName   string    `gorm:"not null" bson:"company_name" json:"company_name"`
	VehiclePlate  string    `gorm:"not null" bson:"vehicle_plate" json:"vehicle_plate"`
	InvoiceNumber string    `gorm:"not null" bson:"invoice_number" json:"invoice_number"`
	DriverName    string    `gorm:"not null" bson:"driver_name" json:"driver_name"`
	BookingDate   string    `gorm:"index;not null" bson:"booking_date" json:"booking_date"` // YYYY-MM-DD
	BookingTime   string    `gorm:"not null" bson:"booking_time" json:"booking_time"`       // HH:MM
	Status        string    `gorm:"not null;default:confirmed" bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`

	// Resolved from the city table for responses and the mirror.
	CityName string `gorm:"-" bson:"-" json:"city,omitempty"`
	State    string `gorm:"-" bson:"-" json:"state,omitempty"`
	Protocol string `gorm:"-" bson:"-" json:"protocol,omitempty"`
}

// ProtocolFor renders the human reference shown to drivers, BK-YYYYMMDD-HHMM.
func ProtocolFor(date, hour string) string {
	return "BK-" + strings.ReplaceAll(date, "-", "") + "-" + strings.ReplaceAll(hour, ":", "")
}

// BookingInput is the payload for creating a booking.
type BookingInput struct {
	CityID        int    `json:"city_id"`
	CompanyName   string `json:"company_name"`
	VehiclePlate  string `json:"vehicle_plate"`
	InvoiceNumber string `json:"invoice_number"`
	DriverName    string `json:"driver_name"`
	BookingDate   string `json:"booking_date"`
	BookingTime   string `json:"booking_time"`
}

// BookingPatch carries the fields of a partial update. Nil means unchanged.
type BookingPatch struct {
	CityID        *int    `json:"city_id,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	VehiclePlate  *string `json:"vehicle_plate,omitempty"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`
	DriverName    *string `json:"driver_name,omitempty"`
	BookingDate   *string `json:"booking_date,omitempty"`
	BookingTime   *string `json:"booking_time,omitempty"`

	// Status is decoded only so an update can reject it; cancellation is one-way
	// and goes through the cancel operation.
	Status *string `json:"status,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p BookingPatch) Empty() bool {
	return p.CityID == nil && p.CompanyName == nil && p.VehiclePlate == nil &&
		p.InvoiceNumber == nil && p.DriverName == nil && p.BookingDate == nil &&
		p.BookingTime == nil
}

// Apply copies the set fields onto b.
func (p BookingPatch) Apply(b *Booking) {
	if p.CityID != nil {
		b.CityID = *p.CityID
	}
	if p.CompanyName != nil {
		b.CompanyName = *p.CompanyName
	}
	if p.VehiclePlate != nil {
		b.VehiclePlate = *p.VehiclePlate
	}
	if p.InvoiceNumber != nil {
		b.InvoiceNumber = *p.InvoiceNumber
	}
	if p.DriverName != nil {
		b.DriverName = *p.DriverName
	}
	if p.BookingDate != nil {
		b.BookingDate = *p.BookingDate
	}
	if p.BookingTime != nil {
		b.BookingTime = *p.BookingTime
	}
}
