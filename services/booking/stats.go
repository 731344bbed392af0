package booking

import (
	"context"
	"errors"

	schedulerRepo "agendamento/database/repository/scheduler"
	"agendamento/models"
)

// Availability resolves every slot of date for one city.
func (s *DefaultBookingService) Availability(ctx context.Context, cityID int, date string) (*DayAvailability, error) {
	if _, err := models.ParseDate(date, s.location()); err != nil {
		return nil, &ValidationError{Field: "date", Message: "formato esperado YYYY-MM-DD"}
	}
	if s.Resolver == nil {
		return nil, errors.New("availability resolver not configured")
	}
	city, err := s.GetCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.Repo.ListBookings(ctx, schedulerRepo.BookingFilter{CityID: cityID, Date: date, Status: models.StatusConfirmed})
	if err != nil {
		return nil, &StorageError{Op: "list bookings", Err: err}
	}
	blocks, err := s.Repo.ListUnavailabilities(ctx, cityID, date)
	if err != nil {
		return nil, &StorageError{Op: "list unavailabilities", Err: err}
	}
	return &DayAvailability{
		City:  *city,
		Date:  date,
		Slots: s.Resolver.DaySlots(*city, date, bookings, blocks),
	}, nil
}

// Stats aggregates bookings overall and per city.
func (s *DefaultBookingService) Stats(ctx context.Context) (*models.Stats, error) {
	cities, err := s.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.Repo.ListBookings(ctx, schedulerRepo.BookingFilter{})
	if err != nil {
		return nil, &StorageError{Op: "list bookings", Err: err}
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.location()).Format(models.DateLayout)
	perCity := make(map[int]*models.CityStats, len(cities))
	stats := &models.Stats{Unavailabilities: counts.Unavailabilities, ByCity: make([]models.CityStats, 0, len(cities))}
	for _, c := range cities {
		perCity[c.ID] = &models.CityStats{CityID: c.ID, CityName: c.Name, State: c.State}
	}
	for _, b := range bookings {
		stats.TotalBookings++
		cs := perCity[b.CityID]
		if cs != nil {
			cs.Total++
		}
		switch b.Status {
		case models.StatusConfirmed:
			stats.ConfirmedBookings++
			if cs != nil {
				cs.Confirmed++
			}
		case models.StatusCancelled:
			stats.CancelledBookings++
			if cs != nil {
				cs.Cancelled++
			}
		}
		if b.BookingDate == today {
			stats.TodayBookings++
		}
	}
	for _, c := range cities {
		stats.ByCity = append(stats.ByCity, *perCity[c.ID])
	}
	return stats, nil
}

func (s *DefaultBookingService) Counts(ctx context.Context) (models.Counts, error) {
	c, err := s.Repo.Counts(ctx)
	if err != nil {
		return c, &StorageError{Op: "count records", Err: err}
	}
	return c, nil
}
