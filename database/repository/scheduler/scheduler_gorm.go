package schedulerRepo

import (
	"context"
	"errors"
	"fmt"

	"agendamento/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSchedulerRepo implements SchedulerRepository on top of SQLite.
type GormSchedulerRepo struct {
	db *gorm.DB
}

// NewGormSchedulerRepo constructs a new instance of GormSchedulerRepo.
func NewGormSchedulerRepo(db *gorm.DB) SchedulerRepository {
	return &GormSchedulerRepo{db: db}
}

func (r *GormSchedulerRepo) EnsureSchema(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&models.City{}, &models.Booking{}, &models.Unavailability{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	for _, c := range models.SeedCities {
		city := c
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&city).Error; err != nil {
			return fmt.Errorf("seed city %d: %w", c.ID, err)
		}
	}
	return nil
}

func (r *GormSchedulerRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormSchedulerRepo) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := r.db.WithContext(ctx).Order("id").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("error listing cities: %w", err)
	}
	return cities, nil
}

func (r *GormSchedulerRepo) GetCity(ctx context.Context, id int) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching city %d: %w", id, err)
	}
	return &city, nil
}

func (r *GormSchedulerRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

func (r *GormSchedulerRepo) GetBooking(ctx context.Context, id int) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %d: %w", id, err)
	}
	return &booking, nil
}

func (r *GormSchedulerRepo) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if filter.CityID != 0 {
		q = q.Where("city_id = ?", filter.CityID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("booking_date = ?", filter.Date)
	}
	if filter.Time != "" {
		q = q.Where("booking_time = ?", filter.Time)
	}

	var bookings []models.Booking
	if err := q.Order("booking_date DESC, booking_time DESC, id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	return bookings, nil
}

func (r *GormSchedulerRepo) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(map[string]interface{}{
		"city_id":        booking.CityID,
		"company_name":   booking.CompanyName,
		"vehicle_plate":  booking.VehiclePlate,
		"invoice_number": booking.InvoiceNumber,
		"driver_name":    booking.DriverName,
		"booking_date":   booking.BookingDate,
		"booking_time":   booking.BookingTime,
		"status":         booking.Status,
		"updated_at":     booking.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("error updating booking %d: %w", booking.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormSchedulerRepo) UpsertBooking(ctx context.Context, booking *models.Booking) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(booking).Error
	if err != nil {
		return fmt.Errorf("error upserting booking %d: %w", booking.ID, err)
	}
	return nil
}

func (r *GormSchedulerRepo) CreateUnavailability(ctx context.Context, u *models.Unavailability) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("error inserting unavailability: %w", err)
	}
	return nil
}

func (r *GormSchedulerRepo) ListUnavailabilities(ctx context.Context, cityID int, date string) ([]models.Unavailability, error) {
	q := r.db.WithContext(ctx).Where("city_id = ?", cityID)
	if date != "" {
		q = q.Where("unavailable_date = ?", date)
	}
	var list []models.Unavailability
	if err := q.Order("unavailable_date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing unavailabilities: %w", err)
	}
	return list, nil
}

func (r *GormSchedulerRepo) UpsertUnavailability(ctx context.Context, u *models.Unavailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Unavailability
		err := tx.Where("city_id = ? AND unavailable_date = ?", u.CityID, u.UnavailableDate).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("error inserting unavailability: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("error looking up unavailability: %w", err)
		}

		u.ID = existing.ID
		if u.CreatedAt.IsZero() {
			u.CreatedAt = existing.CreatedAt
		}
		err = tx.Model(&existing).Updates(map[string]interface{}{
			"unavailable_time": u.UnavailableTime,
			"reason":           u.Reason,
			"created_at":       u.CreatedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("error updating unavailability %d: %w", existing.ID, err)
		}
		return nil
	})
}

func (r *GormSchedulerRepo) Counts(ctx context.Context) (models.Counts, error) {
	var c models.Counts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Booking{}).Count(&c.Bookings).Error; err != nil {
		return c, fmt.Errorf("count bookings: %w", err)
	}
	if err := db.Model(&models.Unavailability{}).Count(&c.Unavailabilities).Error; err != nil {
		return c, fmt.Errorf("count unavailabilities: %w", err)
	}
	if err := db.Model(&models.City{}).Count(&c.Cities).Error; err != nil {
		return c, fmt.Errorf("count cities: %w", err)
	}
	return c, nil
}
