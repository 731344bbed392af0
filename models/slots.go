package models

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Hours are the bookable slot start times of every working day.
var Hours = []string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}

// SlotState classifies a (city, date, slot) triple.
type SlotState string

const (
	SlotPast        SlotState = "past"
	SlotWeekend     SlotState = "weekend"
	SlotHoliday     SlotState = "holiday"
	SlotUnavailable SlotState = "unavailable"
	SlotBooked      SlotState = "booked"
	SlotOpen        SlotState = "open"
)

// SlotView is one hour of a day with its resolved state.
type SlotView struct {
	Time       string    `json:"time"`
	State      SlotState `json:"state"`
	Selectable bool      `json:"selectable"`
	Reason     string    `json:"reason,omitempty"`
}

// IsHour reports whether t is one of the fixed slots.
func IsHour(t string) bool {
	for _, h := range Hours {
		if h == t {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ValidTime reports whether s is a well-formed HH:MM time.
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil && len(s) == 5
}
