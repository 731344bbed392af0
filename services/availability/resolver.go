// Package availability classifies delivery slots for the calendar UI.
package availability

import (
	"time"

	"agendamento/models"
	"agendamento/services/holidays"
)

// Resolver decides the state of a (city, date, slot) triple. It holds no
// booking data itself; callers pass the records relevant to the day.
type Resolver struct {
	Location *time.Location
	Now      func() time.Time
}

// NewResolver returns a Resolver on the wall clock in loc.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{Location: loc, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now().In(r.Location)
	}
	return r.Now().In(r.Location)
}

// Classify applies past > weekend > holiday > unavailable > booked > open.
// The returned reason carries the holiday name or block reason when known.
// Callers validate date first; an unparseable date is never selectable and
// comes back as SlotPast with the parse error as reason.
func (r *Resolver) Classify(city models.City, date, hour string, bookings []models.Booking, blocks []models.Unavailability) (models.SlotState, string) {
	day, err := models.ParseDate(date, r.Location)
	if err != nil {
		return models.SlotPast, err.Error()
	}

	if r.isPast(day, hour) {
		return models.SlotPast, ""
	}
	if holidays.IsWeekend(day) {
		return models.SlotWeekend, ""
	}
	if name, ok := holidays.HolidayName(day, city.State); ok {
		return models.SlotHoliday, name
	}
	for _, u := range blocks {
		if u.CityID == city.ID && u.Covers(date, hour) {
			return models.SlotUnavailable, u.Reason
		}
	}
	for _, b := range bookings {
		if b.CityID == city.ID && b.Status == models.StatusConfirmed &&
			b.BookingDate == date && b.BookingTime == hour {
			return models.SlotBooked, ""
		}
	}
	return models.SlotOpen, ""
}

// DaySlots classifies every fixed hour of date.
func (r *Resolver) DaySlots(city models.City, date string, bookings []models.Booking, blocks []models.Unavailability) []models.SlotView {
	out := make([]models.SlotView, 0, len(models.Hours))
	for _, h := range models.Hours {
		state, reason := r.Classify(city, date, h, bookings, blocks)
		out = append(out, models.SlotView{
			Time:       h,
			State:      state,
			Selectable: state == models.SlotOpen,
			Reason:     reason,
		})
	}
	return out
}

// isPast is day-granular for earlier dates and minute-granular today.
func (r *Resolver) isPast(day time.Time, hour string) bool {
	now := r.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, r.Location)
	if day.Before(today) {
		return true
	}
	if day.After(today) {
		return false
	}
	hm, err := time.Parse(models.TimeLayout, hour)
	if err != nil {
		return false
	}
	start := today.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute)
	return start.Before(now.Truncate(time.Minute))
}
