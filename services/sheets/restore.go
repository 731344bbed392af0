package sheets

import (
	"context"
	"strconv"
	"strings"
	"time"

	"agendamento/models"

	"go.uber.org/zap"
)

// RestoreReport counts what a restore pass did.
type RestoreReport struct {
	BookingsRestored         int `json:"bookings_restored"`
	BookingsSkipped          int `json:"bookings_skipped"`
	UnavailabilitiesRestored int `json:"unavailabilities_restored"`
	UnavailabilitiesSkipped  int `json:"unavailabilities_skipped"`
}

// cityResolver matches spreadsheet city labels to seeded cities.
type cityResolver struct {
	cities []models.City
}

// byName tries the exact name first, then a case-insensitive substring match.
func (r cityResolver) byName(name string) (models.City, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.City{}, false
	}
	for _, c := range r.cities {
		if c.Name == name {
			return c, true
		}
	}
	lower := strings.ToLower(name)
	for _, c := range r.cities {
		cn := strings.ToLower(c.Name)
		if strings.Contains(lower, cn) || strings.Contains(cn, lower) {
			return c, true
		}
	}
	return models.City{}, false
}

func (r cityResolver) byID(id int) (models.City, bool) {
	for _, c := range r.cities {
		if c.ID == id {
			return c, true
		}
	}
	return models.City{}, false
}

// RestoreAll pulls both tabs into the store. Bookings keep their sheet id;
// unavailabilities are keyed by (city, date). Running it twice leaves the
// store unchanged.
func (m *Mirror) RestoreAll(ctx context.Context) (RestoreReport, error) {
	var report RestoreReport
	if !m.Enabled() {
		return report, ErrDisabled
	}

	cities, err := m.repo.ListCities(ctx)
	if err != nil {
		return report, err
	}
	resolver := cityResolver{cities: cities}

	titles, err := m.api.SheetTitles(ctx)
	if err != nil {
		return report, &MirrorError{Op: "list tabs", Err: err}
	}

	if contains(titles, m.opts.BookingsTab) {
		rows, err := m.api.GetValues(ctx, rangeOf(m.opts.BookingsTab, "A:J"))
		if err != nil {
			return report, &MirrorError{Op: "read bookings", Err: err}
		}
		var bookings []*models.Booking
		seen := map[int]int{}
		for i, row := range rows {
			if i == 0 && cell(row, 0) == bookingHeader[0] {
				continue
			}
			b, ok := parseBookingRow(row, resolver)
			if !ok {
				report.BookingsSkipped++
				continue
			}
			if at, dup := seen[b.ID]; dup {
				bookings[at] = mergeDuplicate(bookings[at], b)
				continue
			}
			seen[b.ID] = len(bookings)
			bookings = append(bookings, b)
		}
		for _, b := range bookings {
			if err := m.repo.UpsertBooking(ctx, b); err != nil {
				return report, err
			}
			report.BookingsRestored++
		}
	}

	if contains(titles, m.opts.UnavailabilityTab) {
		rows, err := m.api.GetValues(ctx, rangeOf(m.opts.UnavailabilityTab, "A:F"))
		if err != nil {
			return report, &MirrorError{Op: "read unavailabilities", Err: err}
		}
		for i, row := range rows {
			if i == 0 && cell(row, 0) == unavailabilityHeader[0] {
				continue
			}
			u, ok := parseUnavailabilityRow(row, resolver)
			if !ok {
				report.UnavailabilitiesSkipped++
				continue
			}
			if err := m.repo.UpsertUnavailability(ctx, u); err != nil {
				return report, err
			}
			report.UnavailabilitiesRestored++
		}
	}

	m.logger.Info("Restore from spreadsheet finished",
		zap.Int("bookings_restored", report.BookingsRestored),
		zap.Int("bookings_skipped", report.BookingsSkipped),
		zap.Int("unavailabilities_restored", report.UnavailabilitiesRestored),
		zap.Int("unavailabilities_skipped", report.UnavailabilitiesSkipped),
	)
	return report, nil
}

// mergeDuplicate picks between two rows sharing an id. Concurrent pushes can
// leave a create and its cancel as separate rows, so a cancelled row always
// wins; otherwise the later row does.
func mergeDuplicate(earlier, later *models.Booking) *models.Booking {
	if earlier.Status == models.StatusCancelled && later.Status != models.StatusCancelled {
		return earlier
	}
	return later
}

func parseBookingRow(row []interface{}, cities cityResolver) (*models.Booking, bool) {
	idText, company, date := cell(row, 0), cell(row, 1), cell(row, 5)
	if idText == "" || company == "" || date == "" {
		return nil, false
	}
	id, err := strconv.Atoi(idText)
	if err != nil || id <= 0 {
		return nil, false
	}
	city, ok := cities.byName(cell(row, 7))
	if !ok {
		return nil, false
	}

	status := models.StatusConfirmed
	if strings.EqualFold(cell(row, 8), models.StatusCancelled) {
		status = models.StatusCancelled
	}
	created := parseTimestamp(cell(row, 9))
	return &models.Booking{
		ID:            id,
		CityID:        city.ID,
		CompanyName:   company,
		VehiclePlate:  cell(row, 2),
		InvoiceNumber: cell(row, 3),
		DriverName:    cell(row, 4),
		BookingDate:   date,
		BookingTime:   cell(row, 6),
		Status:        status,
		CreatedAt:     created,
		UpdatedAt:     created,
	}, true
}

func parseUnavailabilityRow(row []interface{}, cities cityResolver) (*models.Unavailability, bool) {
	date := cell(row, 2)
	if date == "" {
		return nil, false
	}
	city, ok := models.City{}, false
	if id, err := strconv.Atoi(cell(row, 0)); err == nil {
		city, ok = cities.byID(id)
	}
	if !ok {
		city, ok = cities.byName(cell(row, 1))
	}
	if !ok {
		return nil, false
	}

	var slot *string
	if t := cell(row, 3); t != "" && !strings.EqualFold(t, wholeDay) {
		slot = &t
	}
	return &models.Unavailability{
		CityID:          city.ID,
		UnavailableDate: date,
		UnavailableTime: slot,
		Reason:          cell(row, 4),
		CreatedAt:       parseTimestamp(cell(row, 5)),
	}, true
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "02/01/2006 15:04:05", models.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// RestoreOnStartup restores when the store holds no bookings or when always
// is set. Failures are logged and never stop the boot.
func (m *Mirror) RestoreOnStartup(ctx context.Context, always bool) {
	if !m.Enabled() {
		return
	}
	counts, err := m.repo.Counts(ctx)
	if err != nil {
		m.logger.Warn("Skipping startup restore", zap.Error(err))
		return
	}
	if counts.Bookings > 0 && !always {
		m.logger.Info("Store already populated, skipping startup restore", zap.Int64("bookings", counts.Bookings))
		return
	}
	if _, err := m.RestoreAll(ctx); err != nil {
		m.logger.Warn("Startup restore failed", zap.Error(err))
	}
}
