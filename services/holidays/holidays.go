// Package holidays decides which calendar days accept deliveries.
//
// Only fixed-date holidays are modelled. Moving feasts such as Carnival or
// Corpus Christi are not part of the calendar.
package holidays

import (
	"errors"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
)

// ErrNoAvailableDay is returned when a full year holds no working day.
var ErrNoAvailableDay = errors.New("no available day within a year")

// maxScanDays bounds NextAvailableDay.
const maxScanDays = 366

func fixed(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Day:   day,
		Func:  cal.CalcDayOfMonth,
	}
}

// National holidays observed in every city.
var (
	NewYear          = fixed("Ano Novo", time.January, 1)
	Tiradentes       = fixed("Tiradentes", time.April, 21)
	LabourDay        = fixed("Dia do Trabalho", time.May, 1)
	IndependenceDay  = fixed("Independência do Brasil", time.September, 7)
	OurLadyAparecida = fixed("Nossa Senhora Aparecida", time.October, 12)
	AllSoulsDay      = fixed("Finados", time.November, 2)
	BlackAwareness   = fixed("Consciência Negra", time.November, 20)
	Christmas        = fixed("Natal", time.December, 25)
)

// stateHolidays holds one fixed holiday per supported state.
var stateHolidays = map[string]*cal.Holiday{
	"CE": fixed("São José", time.March, 19),
	"PB": fixed("Nossa Senhora das Neves", time.August, 5),
	"RN": fixed("Santo Antônio", time.December, 3),
	"BA": fixed("Finados", time.November, 2),
	"MG": fixed("Nossa Senhora da Conceição", time.December, 8),
	"SP": fixed("Consciência Negra", time.November, 20),
}

var (
	national = newNationalCalendar()
	states   = newStateCalendars()
)

func newNationalCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		NewYear,
		Tiradentes,
		LabourDay,
		IndependenceDay,
		OurLadyAparecida,
		AllSoulsDay,
		BlackAwareness,
		Christmas,
	)
	return c
}

func newStateCalendars() map[string]*cal.BusinessCalendar {
	out := make(map[string]*cal.BusinessCalendar, len(stateHolidays))
	for code, h := range stateHolidays {
		c := cal.NewBusinessCalendar()
		c.AddHoliday(h)
		out[code] = c
	}
	return out
}

// StateCode extracts the UF from values such as "SP" or "SP-Ourinhos".
func StateCode(s string) string {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsNationalHoliday reports whether date is one of the national holidays.
func IsNationalHoliday(date time.Time) bool {
	actual, _, _ := national.IsHoliday(date)
	return actual
}

// IsStateHoliday reports whether date is the holiday of the given state.
// Unknown or empty codes never match.
func IsStateHoliday(date time.Time, state string) bool {
	c, ok := states[StateCode(state)]
	if !ok {
		return false
	}
	actual, _, _ := c.IsHoliday(date)
	return actual
}

func IsWeekend(date time.Time) bool {
	return cal.IsWeekend(date)
}

// IsAvailableDay reports whether deliveries are accepted on date.
func IsAvailableDay(date time.Time, state string) bool {
	return !IsNationalHoliday(date) && !IsStateHoliday(date, state) && !IsWeekend(date)
}

// HolidayName returns the holiday falling on date, national first.
func HolidayName(date time.Time, state string) (string, bool) {
	if actual, _, h := national.IsHoliday(date); actual && h != nil {
		return h.Name, true
	}
	if c, ok := states[StateCode(state)]; ok {
		if actual, _, h := c.IsHoliday(date); actual && h != nil {
			return h.Name, true
		}
	}
	return "", false
}

// NextAvailableDay returns the first available day strictly after from.
func NextAvailableDay(from time.Time, state string) (time.Time, error) {
	d := dayStart(from)
	for i := 0; i < maxScanDays; i++ {
		d = d.AddDate(0, 0, 1)
		if IsAvailableDay(d, state) {
			return d, nil
		}
	}
	return time.Time{}, ErrNoAvailableDay
}

// AvailableDaysInMonth lists the day numbers of month that accept deliveries.
func AvailableDaysInMonth(year int, month time.Month, state string) []int {
	var days []int
	last := daysIn(year, month)
	for day := 1; day <= last; day++ {
		if IsAvailableDay(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), state) {
			days = append(days, day)
		}
	}
	return days
}

// Day is one entry of a month overlay.
type Day struct {
	Date        string `json:"date"`
	Day         int    `json:"day"`
	Weekday     string `json:"weekday"`
	Available   bool   `json:"available"`
	Weekend     bool   `json:"weekend"`
	Holiday     bool   `json:"holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
}

// MonthCalendar describes every day of month for the given state.
func MonthCalendar(year int, month time.Month, state string) []Day {
	last := daysIn(year, month)
	out := make([]Day, 0, last)
	for day := 1; day <= last; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		name, holiday := HolidayName(d, state)
		out = append(out, Day{
			Date:        d.Format("2006-01-02"),
			Day:         day,
			Weekday:     d.Weekday().String(),
			Available:   IsAvailableDay(d, state),
			Weekend:     IsWeekend(d),
			Holiday:     holiday,
			HolidayName: name,
		})
	}
	return out
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
