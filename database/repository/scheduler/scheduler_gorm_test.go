package schedulerRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"agendamento/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) SchedulerRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewGormSchedulerRepo(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return repo
}

func sampleBooking(date, hour string) *models.Booking {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return &models.Booking{
		CityID:        6,
		CompanyName:   "Transportes Silva",
		VehiclePlate:  "ABC1D23",
		InvoiceNumber: "NF-001",
		DriverName:    "João",
		BookingDate:   date,
		BookingTime:   hour,
		Status:        models.StatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestEnsureSchemaSeedsCitiesOnce(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	cities, err := repo.ListCities(ctx)
	if err != nil {
		t.Fatalf("ListCities: %v", err)
	}
	if len(cities) != 8 {
		t.Fatalf("len(cities) = %d, want 8", len(cities))
	}
	if cities[5].Name != "Ourinhos" || cities[5].State != "SP" {
		t.Errorf("cities[5] = %+v, want Ourinhos/SP", cities[5])
	}
	if _, err := repo.GetCity(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCity(99) err = %v, want ErrNotFound", err)
	}
}

func TestListBookingsOrderAndFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for _, b := range []*models.Booking{
		sampleBooking("2025-03-10", "09:00"),
		sampleBooking("2025-03-12", "08:00"),
		sampleBooking("2025-03-12", "14:00"),
	} {
		if err := repo.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	all, err := repo.ListBookings(ctx, BookingFilter{})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	want := []string{"2025-03-12 14:00", "2025-03-12 08:00", "2025-03-10 09:00"}
	for i, b := range all {
		if got := b.BookingDate + " " + b.BookingTime; got != want[i] {
			t.Errorf("all[%d] = %s, want %s", i, got, want[i])
		}
	}

	day, err := repo.ListBookings(ctx, BookingFilter{CityID: 6, Date: "2025-03-12", Time: "08:00"})
	if err != nil {
		t.Fatalf("ListBookings filtered: %v", err)
	}
	if len(day) != 1 {
		t.Fatalf("filtered len = %d, want 1", len(day))
	}
}

func TestUpsertBookingPreservesID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := sampleBooking("2025-03-12", "08:00")
	b.ID = 42
	if err := repo.UpsertBooking(ctx, b); err != nil {
		t.Fatalf("UpsertBooking: %v", err)
	}
	b.Status = models.StatusCancelled
	if err := repo.UpsertBooking(ctx, b); err != nil {
		t.Fatalf("second UpsertBooking: %v", err)
	}

	got, err := repo.GetBooking(ctx, 42)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.Status != models.StatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Bookings != 1 || counts.Cities != 8 {
		t.Errorf("counts = %+v, want 1 booking and 8 cities", counts)
	}
}

func TestUpsertUnavailabilityKeyedByCityAndDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &models.Unavailability{CityID: 1, UnavailableDate: "2025-03-14", Reason: "inventário"}
	if err := repo.UpsertUnavailability(ctx, u); err != nil {
		t.Fatalf("UpsertUnavailability: %v", err)
	}
	again := &models.Unavailability{CityID: 1, UnavailableDate: "2025-03-14", Reason: "feriado municipal"}
	if err := repo.UpsertUnavailability(ctx, again); err != nil {
		t.Fatalf("second UpsertUnavailability: %v", err)
	}

	list, err := repo.ListUnavailabilities(ctx, 1, "")
	if err != nil {
		t.Fatalf("ListUnavailabilities: %v", err)
	}
	if len(list) != 1 || list[0].Reason != "feriado municipal" {
		t.Fatalf("list = %+v, want one updated record", list)
	}
}

func TestUpdateBookingMissing(t *testing.T) {
	repo := newTestRepo(t)
	b := sampleBooking("2025-03-12", "08:00")
	b.ID = 7
	if err := repo.UpdateBooking(context.Background(), b); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateBooking err = %v, want ErrNotFound", err)
	}
}
