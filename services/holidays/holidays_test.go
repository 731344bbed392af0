package holidays

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNationalHolidaysAreYearIndependent(t *testing.T) {
	for _, year := range []int{2024, 2025, 2031} {
		for _, h := range []struct {
			m time.Month
			d int
		}{
			{time.January, 1}, {time.April, 21}, {time.May, 1}, {time.September, 7},
			{time.October, 12}, {time.November, 2}, {time.November, 20}, {time.December, 25},
		} {
			if !IsNationalHoliday(date(year, h.m, h.d)) {
				t.Errorf("IsNationalHoliday(%d-%02d-%02d) = false, want true", year, h.m, h.d)
			}
		}
	}
	if IsNationalHoliday(date(2025, time.January, 2)) {
		t.Errorf("IsNationalHoliday(2025-01-02) = true, want false")
	}
}

func TestStateHolidays(t *testing.T) {
	tests := []struct {
		state string
		day   time.Time
		want  bool
	}{
		{"CE", date(2025, time.March, 19), true},
		{"PB", date(2025, time.August, 5), true},
		{"RN", date(2025, time.December, 3), true},
		{"MG", date(2025, time.December, 8), true},
		{"SP-Ourinhos", date(2025, time.November, 20), true},
		{"sp", date(2025, time.November, 20), true},
		{"SP", date(2025, time.March, 19), false},
		{"XX", date(2025, time.March, 19), false},
		{"", date(2025, time.March, 19), false},
	}
	for _, tt := range tests {
		if got := IsStateHoliday(tt.day, tt.state); got != tt.want {
			t.Errorf("IsStateHoliday(%s, %q) = %v, want %v", tt.day.Format("2006-01-02"), tt.state, got, tt.want)
		}
	}
}

func TestIsAvailableDay(t *testing.T) {
	if IsAvailableDay(date(2025, time.November, 20), "") {
		t.Errorf("Consciência Negra should be unavailable")
	}
	if IsAvailableDay(date(2025, time.March, 19), "CE") {
		t.Errorf("São José should be unavailable in CE")
	}
	if !IsAvailableDay(date(2025, time.March, 19), "SP") {
		t.Errorf("2025-03-19 should be available in SP")
	}
	if IsAvailableDay(date(2025, time.January, 4), "") {
		t.Errorf("Saturday should be unavailable")
	}
}

func TestHolidayNamePrefersNational(t *testing.T) {
	name, ok := HolidayName(date(2025, time.November, 2), "BA")
	if !ok || name != "Finados" {
		t.Fatalf("HolidayName = %q, %v, want Finados, true", name, ok)
	}
	name, ok = HolidayName(date(2025, time.March, 19), "CE")
	if !ok || name != "São José" {
		t.Fatalf("HolidayName = %q, %v, want São José, true", name, ok)
	}
	if _, ok := HolidayName(date(2025, time.March, 18), "CE"); ok {
		t.Fatalf("HolidayName on a plain Tuesday should be false")
	}
}

func TestNextAvailableDay(t *testing.T) {
	tests := []struct {
		from time.Time
		want time.Time
	}{
		{date(2024, time.December, 31), date(2025, time.January, 2)},
		{date(2025, time.January, 3), date(2025, time.January, 6)},
		{date(2025, time.March, 18), date(2025, time.March, 20)},
	}
	for _, tt := range tests {
		state := ""
		if tt.from.Month() == time.March {
			state = "CE"
		}
		got, err := NextAvailableDay(tt.from, state)
		if err != nil {
			t.Fatalf("NextAvailableDay: %v", err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("NextAvailableDay(%s) = %s, want %s", tt.from.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
		if !got.After(tt.from) || !IsAvailableDay(got, state) {
			t.Errorf("NextAvailableDay(%s) returned an invalid day %s", tt.from.Format("2006-01-02"), got.Format("2006-01-02"))
		}
	}
}

func TestAvailableDaysInMonthJanuary2025(t *testing.T) {
	want := []int{2, 3, 6, 7, 8, 9, 10, 13, 14, 15, 16, 17, 20, 21, 22, 23, 24, 27, 28, 29, 30, 31}
	got := AvailableDaysInMonth(2025, time.January, "")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableDaysInMonth(2025, January) = %v, want %v", got, want)
	}
}

func TestAvailableDaysInMonthMatchesIsAvailableDay(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		days := AvailableDaysInMonth(2026, m, "SP")
		set := make(map[int]bool, len(days))
		for _, d := range days {
			set[d] = true
		}
		for d := 1; d <= daysIn(2026, m); d++ {
			if set[d] != IsAvailableDay(date(2026, m, d), "SP") {
				t.Errorf("2026-%02d-%02d membership mismatch", m, d)
			}
		}
	}
}

func TestMonthCalendar(t *testing.T) {
	days := MonthCalendar(2025, time.February, "CE")
	if len(days) != 28 {
		t.Fatalf("len = %d, want 28", len(days))
	}
	if days[0].Date != "2025-02-01" || days[0].Available || !days[0].Weekend {
		t.Errorf("first day = %+v, want unavailable Saturday", days[0])
	}
	if !days[2].Available {
		t.Errorf("2025-02-03 should be available")
	}
}
