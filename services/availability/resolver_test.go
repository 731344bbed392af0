package availability

import (
	"testing"
	"time"

	"agendamento/models"
)

var fortaleza = models.City{ID: 1, Name: "Fortaleza", State: "CE"}

func fixedResolver(now time.Time) *Resolver {
	return &Resolver{Location: time.UTC, Now: func() time.Time { return now }}
}

func strPtr(s string) *string { return &s }

func TestClassifyPrecedence(t *testing.T) {
	r := fixedResolver(time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC))

	booked := []models.Booking{{CityID: 1, BookingDate: "2025-03-12", BookingTime: "08:00", Status: models.StatusConfirmed}}
	cancelled := []models.Booking{{CityID: 1, BookingDate: "2025-03-12", BookingTime: "09:00", Status: models.StatusCancelled}}
	wholeDay := []models.Unavailability{{CityID: 1, UnavailableDate: "2025-03-13", Reason: "inventário"}}
	oneSlot := []models.Unavailability{{CityID: 1, UnavailableDate: "2025-03-12", UnavailableTime: strPtr("08:00"), Reason: "manutenção"}}

	tests := []struct {
		name     string
		date     string
		hour     string
		bookings []models.Booking
		blocks   []models.Unavailability
		want     models.SlotState
	}{
		{"earlier day", "2025-03-07", "14:00", nil, nil, models.SlotPast},
		{"earlier slot today", "2025-03-10", "09:00", nil, nil, models.SlotPast},
		{"later slot today", "2025-03-10", "10:00", nil, nil, models.SlotOpen},
		{"weekend", "2025-03-15", "08:00", nil, nil, models.SlotWeekend},
		{"state holiday", "2025-03-19", "08:00", nil, nil, models.SlotHoliday},
		{"whole day block", "2025-03-13", "15:00", nil, wholeDay, models.SlotUnavailable},
		{"block beats booking", "2025-03-12", "08:00", booked, oneSlot, models.SlotUnavailable},
		{"booked", "2025-03-12", "08:00", booked, nil, models.SlotBooked},
		{"cancelled frees slot", "2025-03-12", "09:00", cancelled, nil, models.SlotOpen},
		{"slot block leaves other hours", "2025-03-12", "10:00", nil, oneSlot, models.SlotOpen},
		{"past beats booked", "2025-03-10", "08:00", []models.Booking{{CityID: 1, BookingDate: "2025-03-10", BookingTime: "08:00", Status: models.StatusConfirmed}}, nil, models.SlotPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := r.Classify(fortaleza, tt.date, tt.hour, tt.bookings, tt.blocks)
			if got != tt.want {
				t.Fatalf("Classify(%s %s) = %s, want %s", tt.date, tt.hour, got, tt.want)
			}
		})
	}
}

func TestClassifyIgnoresOtherCities(t *testing.T) {
	r := fixedResolver(time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC))
	other := []models.Booking{{CityID: 2, BookingDate: "2025-03-12", BookingTime: "08:00", Status: models.StatusConfirmed}}
	if got, _ := r.Classify(fortaleza, "2025-03-12", "08:00", other, nil); got != models.SlotOpen {
		t.Fatalf("Classify = %s, want open", got)
	}
}

func TestDaySlots(t *testing.T) {
	r := fixedResolver(time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC))
	slots := r.DaySlots(fortaleza, "2025-03-19", nil, nil)
	if len(slots) != len(models.Hours) {
		t.Fatalf("len = %d, want %d", len(slots), len(models.Hours))
	}
	for _, s := range slots {
		if s.State != models.SlotHoliday || s.Selectable || s.Reason != "São José" {
			t.Errorf("slot %s = %+v, want unselectable São José holiday", s.Time, s)
		}
	}
}

func TestClassifyRejectsMalformedDate(t *testing.T) {
	r := fixedResolver(time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC))
	for _, date := range []string{"", "2025-13-01", "12/03/2025"} {
		state, reason := r.Classify(fortaleza, date, "08:00", nil, nil)
		if state == models.SlotOpen || reason == "" {
			t.Errorf("Classify(%q) = %s %q, want unselectable with a reason", date, state, reason)
		}
	}
}
