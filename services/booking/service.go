package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	schedulerRepo "agendamento/database/repository/scheduler"
	"agendamento/models"
	"agendamento/services/availability"
	"agendamento/utils"

	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     schedulerRepo.SchedulerRepository
	Resolver *availability.Resolver
	Locker   SlotLocker
	Mirror   Mirror
	Logger   *zap.Logger

	// Pin guards unavailability registration. Plain text or bcrypt hash.
	Pin string
	// EnforceSlot rejects bookings for slots that are not open.
	EnforceSlot bool
	Now         func() time.Time
}

var _ BookingService = (*DefaultBookingService)(nil)

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultBookingService) location() *time.Location {
	if s.Resolver != nil && s.Resolver.Location != nil {
		return s.Resolver.Location
	}
	return time.UTC
}

func (s *DefaultBookingService) ListCities(ctx context.Context) ([]models.City, error) {
	cities, err := s.Repo.ListCities(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list cities", Err: err}
	}
	return cities, nil
}

func (s *DefaultBookingService) GetCity(ctx context.Context, id int) (*models.City, error) {
	city, err := s.Repo.GetCity(ctx, id)
	if errors.Is(err, schedulerRepo.ErrNotFound) {
		return nil, &NotFoundError{Resource: "cidade", ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "get city", Err: err}
	}
	return city, nil
}

// cityIndex maps ids to cities for decorating list results.
func (s *DefaultBookingService) cityIndex(ctx context.Context) (map[int]models.City, error) {
	cities, err := s.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[int]models.City, len(cities))
	for _, c := range cities {
		idx[c.ID] = c
	}
	return idx, nil
}

func decorate(b *models.Booking, city models.City) {
	b.CityName = city.Name
	b.State = city.State
	b.Protocol = models.ProtocolFor(b.BookingDate, b.BookingTime)
}

func (s *DefaultBookingService) validateInput(in *models.BookingInput) error {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.VehiclePlate = strings.ToUpper(strings.TrimSpace(in.VehiclePlate))
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	in.DriverName = strings.TrimSpace(in.DriverName)
	in.BookingDate = strings.TrimSpace(in.BookingDate)
	in.BookingTime = strings.TrimSpace(in.BookingTime)

	switch {
	case in.CityID <= 0:
		return missing("city_id")
	case in.CompanyName == "":
		return missing("company_name")
	case in.VehiclePlate == "":
		return missing("vehicle_plate")
	case in.InvoiceNumber == "":
		return missing("invoice_number")
	case in.DriverName == "":
		return missing("driver_name")
	case in.BookingDate == "":
		return missing("booking_date")
	case in.BookingTime == "":
		return missing("booking_time")
	}
	return validateDateTime(in.BookingDate, in.BookingTime)
}

func validateDateTime(date, hour string) error {
	if _, err := models.ParseDate(date, time.UTC); err != nil {
		return &ValidationError{Field: "booking_date", Message: "formato esperado YYYY-MM-DD"}
	}
	if !models.ValidTime(hour) {
		return &ValidationError{Field: "booking_time", Message: "formato esperado HH:MM"}
	}
	return nil
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	city, err := s.GetCity(ctx, in.CityID)
	if err != nil {
		return nil, err
	}

	if s.EnforceSlot {
		unlock, err := s.checkSlot(ctx, *city, in.BookingDate, in.BookingTime, 0)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	now := s.now()
	b := &models.Booking{
		CityID:        in.CityID,
		CompanyName:   in.CompanyName,
		VehiclePlate:  in.VehiclePlate,
		InvoiceNumber: in.InvoiceNumber,
		DriverName:    in.DriverName,
		BookingDate:   in.BookingDate,
		BookingTime:   in.BookingTime,
		Status:        models.StatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.CreateBooking(ctx, b); err != nil {
		return nil, &StorageError{Op: "create booking", Err: err}
	}
	decorate(b, *city)

	s.logger().Info("Booking created",
		zap.Int("id", b.ID),
		zap.String("city", city.Name),
		zap.String("date", b.BookingDate),
		zap.String("time", b.BookingTime),
	)
	if s.Mirror != nil {
		s.Mirror.BookingCreated(*b)
	}
	return b, nil
}

// checkSlot locks the slot and rejects it unless it resolves to open.
// ignoreID skips the booking being moved by an update.
func (s *DefaultBookingService) checkSlot(ctx context.Context, city models.City, date, hour string, ignoreID int) (func(), error) {
	if !models.IsHour(hour) {
		return nil, &ValidationError{Field: "booking_time", Message: "horário fora da grade " + strings.Join(models.Hours, ", ")}
	}
	locker := s.Locker
	if locker == nil {
		return nil, &StorageError{Op: "lock slot", Err: errors.New("no slot locker configured")}
	}
	unlock, err := locker.Lock(ctx, SlotKey(city.ID, date, hour))
	if err != nil {
		return nil, &StorageError{Op: "lock slot", Err: err}
	}

	bookings, err := s.Repo.ListBookings(ctx, schedulerRepo.BookingFilter{CityID: city.ID, Date: date, Time: hour, Status: models.StatusConfirmed})
	if err != nil {
		unlock()
		return nil, &StorageError{Op: "list bookings", Err: err}
	}
	if ignoreID != 0 {
		kept := bookings[:0]
		for _, b := range bookings {
			if b.ID != ignoreID {
				kept = append(kept, b)
			}
		}
		bookings = kept
	}
	blocks, err := s.Repo.ListUnavailabilities(ctx, city.ID, date)
	if err != nil {
		unlock()
		return nil, &StorageError{Op: "list unavailabilities", Err: err}
	}

	state, reason := s.Resolver.Classify(city, date, hour, bookings, blocks)
	if state != models.SlotOpen {
		unlock()
		msg := "horário indisponível: " + string(state)
		if reason != "" {
			msg += " (" + reason + ")"
		}
		return nil, &ConflictError{State: state, Message: msg}
	}
	return unlock, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id int) (*models.Booking, error) {
	b, err := s.Repo.GetBooking(ctx, id)
	if errors.Is(err, schedulerRepo.ErrNotFound) {
		return nil, &NotFoundError{Resource: "agendamento", ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "get booking", Err: err}
	}
	if city, err := s.Repo.GetCity(ctx, b.CityID); err == nil {
		decorate(b, *city)
	} else {
		b.Protocol = models.ProtocolFor(b.BookingDate, b.BookingTime)
	}
	return b, nil
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, status string) ([]models.Booking, error) {
	if status != "" && status != models.StatusConfirmed && status != models.StatusCancelled {
		return nil, &ValidationError{Field: "status", Message: "use confirmed ou cancelled"}
	}
	return s.listBookings(ctx, schedulerRepo.BookingFilter{Status: status})
}

func (s *DefaultBookingService) ListBookingsByCity(ctx context.Context, cityID int) ([]models.Booking, error) {
	return s.listBookings(ctx, schedulerRepo.BookingFilter{CityID: cityID})
}

func (s *DefaultBookingService) listBookings(ctx context.Context, filter schedulerRepo.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.Repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, &StorageError{Op: "list bookings", Err: err}
	}
	cities, err := s.cityIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		decorate(&b, cities[b.CityID])
		out = append(out, b)
	}
	return out, nil
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, id int, reason string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = models.StatusCancelled
	b.UpdatedAt = s.now()
	if err := s.Repo.UpdateBooking(ctx, b); err != nil {
		return nil, &StorageError{Op: "cancel booking", Err: err}
	}

	s.logger().Info("Booking cancelled", zap.Int("id", id), zap.String("reason", reason))
	if s.Mirror != nil {
		s.Mirror.BookingChanged(*b)
	}
	return b, nil
}

func (s *DefaultBookingService) UpdateBooking(ctx context.Context, id int, patch models.BookingPatch) (*models.Booking, error) {
	if patch.Status != nil {
		return nil, &ValidationError{Field: "status", Message: "status não pode ser alterado; use o cancelamento"}
	}
	if patch.Empty() {
		return nil, &ValidationError{Message: "nenhum campo para atualizar"}
	}
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *b
	patch.Apply(b)

	if err := validatePatched(b); err != nil {
		return nil, err
	}
	city := models.City{ID: b.CityID, Name: b.CityName, State: b.State}
	if b.CityID != before.CityID {
		c, err := s.GetCity(ctx, b.CityID)
		if err != nil {
			return nil, err
		}
		city = *c
	}

	moved := b.CityID != before.CityID || b.BookingDate != before.BookingDate ||
		b.BookingTime != before.BookingTime
	if s.EnforceSlot && b.Status == models.StatusConfirmed && moved {
		unlock, err := s.checkSlot(ctx, city, b.BookingDate, b.BookingTime, b.ID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	b.UpdatedAt = s.now()
	if err := s.Repo.UpdateBooking(ctx, b); err != nil {
		if errors.Is(err, schedulerRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "agendamento", ID: id}
		}
		return nil, &StorageError{Op: "update booking", Err: err}
	}
	decorate(b, city)

	s.logger().Info("Booking updated", zap.Int("id", id))
	if s.Mirror != nil {
		s.Mirror.BookingChanged(*b)
	}
	return b, nil
}

func validatePatched(b *models.Booking) error {
	b.CompanyName = strings.TrimSpace(b.CompanyName)
	b.VehiclePlate = strings.ToUpper(strings.TrimSpace(b.VehiclePlate))
	b.InvoiceNumber = strings.TrimSpace(b.InvoiceNumber)
	b.DriverName = strings.TrimSpace(b.DriverName)
	switch {
	case b.CityID <= 0:
		return missing("city_id")
	case b.CompanyName == "":
		return missing("company_name")
	case b.VehiclePlate == "":
		return missing("vehicle_plate")
	case b.InvoiceNumber == "":
		return missing("invoice_number")
	case b.DriverName == "":
		return missing("driver_name")
	}
	return validateDateTime(b.BookingDate, b.BookingTime)
}
