package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendamento/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
// Integer ids come from the counters collection so both backends share
// the same id space as the spreadsheet mirror.
type MongoSchedulerRepo struct {
	db                 *mongo.Database
	cityColl           *mongo.Collection
	bookingColl        *mongo.Collection
	unavailabilityColl *mongo.Collection
	counterColl        *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(db *mongo.Database) SchedulerRepository {
	return &MongoSchedulerRepo{
		db:                 db,
		cityColl:           db.Collection("cities"),
		bookingColl:        db.Collection("bookings"),
		unavailabilityColl: db.Collection("unavailabilities"),
		counterColl:        db.Collection("counters"),
	}
}

func newContext(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}

func (repo *MongoSchedulerRepo) EnsureSchema(ctx context.Context) error {
	if err := repo.ensureIndexes(ctx); err != nil {
		return err
	}
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()
	for _, c := range models.SeedCities {
		city := c
		city.CreatedAt = time.Now().UTC()
		_, err := repo.cityColl.UpdateOne(cctx,
			bson.M{"id": city.ID},
			bson.M{"$setOnInsert": city},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed city %d: %w", city.ID, err)
		}
	}
	return nil
}

func (repo *MongoSchedulerRepo) Ping(ctx context.Context) error {
	return repo.db.Client().Ping(ctx, nil)
}

// nextID atomically increments the named counter.
func (repo *MongoSchedulerRepo) nextID(ctx context.Context, name string) (int, error) {
	var doc struct {
		Seq int `bson:"seq"`
	}
	err := repo.counterColl.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("error allocating %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// bumpCounter keeps the counter ahead of ids written from outside nextID.
func (repo *MongoSchedulerRepo) bumpCounter(ctx context.Context, name string, id int) error {
	_, err := repo.counterColl.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": id}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (repo *MongoSchedulerRepo) ListCities(ctx context.Context) ([]models.City, error) {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.cityColl.Find(cctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing cities: %w", err)
	}
	var cities []models.City
	if err := cursor.All(cctx, &cities); err != nil {
		return nil, fmt.Errorf("error decoding cities: %w", err)
	}
	return cities, nil
}

func (repo *MongoSchedulerRepo) GetCity(ctx context.Context, id int) (*models.City, error) {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var city models.City
	err := repo.cityColl.FindOne(cctx, bson.M{"id": id}).Decode(&city)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching city with id %d: %w", id, err)
	}
	return &city, nil
}

func (repo *MongoSchedulerRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	id, err := repo.nextID(cctx, "bookings")
	if err != nil {
		return err
	}
	booking.ID = id
	if _, err := repo.bookingColl.InsertOne(cctx, booking); err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

func (repo *MongoSchedulerRepo) GetBooking(ctx context.Context, id int) (*models.Booking, error) {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(cctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking with id %d: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoSchedulerRepo) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.CityID != 0 {
		query["city_id"] = filter.CityID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Date != "" {
		query["booking_date"] = filter.Date
	}
	if filter.Time != "" {
		query["booking_time"] = filter.Time
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "booking_date", Value: -1},
		{Key: "booking_time", Value: -1},
		{Key: "id", Value: -1},
	})
	cursor, err := repo.bookingColl.Find(cctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	var bookings []models.Booking
	if err := cursor.All(cctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoSchedulerRepo) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"city_id":        booking.CityID,
		"company_name":   booking.CompanyName,
		"vehicle_plate":  booking.VehiclePlate,
		"invoice_number": booking.InvoiceNumber,
		"driver_name":    booking.DriverName,
		"booking_date":   booking.BookingDate,
		"booking_time":   booking.BookingTime,
		"status":         booking.Status,
		"updated_at":     booking.UpdatedAt,
	}}
	res, err := repo.bookingColl.UpdateOne(cctx, bson.M{"id": booking.ID}, update)
	if err != nil {
		return fmt.Errorf("error updating booking %d: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoSchedulerRepo) UpsertBooking(ctx context.Context, booking *models.Booking) error {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.bookingColl.ReplaceOne(cctx, bson.M{"id": booking.ID}, booking, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting booking %d: %w", booking.ID, err)
	}
	if err := repo.bumpCounter(cctx, "bookings", booking.ID); err != nil {
		return fmt.Errorf("error advancing bookings counter: %w", err)
	}
	return nil
}

func (repo *MongoSchedulerRepo) CreateUnavailability(ctx context.Context, u *models.Unavailability) error {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	id, err := repo.nextID(cctx, "unavailabilities")
	if err != nil {
		return err
	}
	u.ID = id
	if _, err := repo.unavailabilityColl.InsertOne(cctx, u); err != nil {
		return fmt.Errorf("error inserting unavailability: %w", err)
	}
	return nil
}

func (repo *MongoSchedulerRepo) ListUnavailabilities(ctx context.Context, cityID int, date string) ([]models.Unavailability, error) {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{"city_id": cityID}
	if date != "" {
		query["unavailable_date"] = date
	}
	opts := options.Find().SetSort(bson.D{{Key: "unavailable_date", Value: -1}, {Key: "id", Value: -1}})
	cursor, err := repo.unavailabilityColl.Find(cctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing unavailabilities: %w", err)
	}
	var list []models.Unavailability
	if err := cursor.All(cctx, &list); err != nil {
		return nil, fmt.Errorf("error decoding unavailabilities: %w", err)
	}
	return list, nil
}

func (repo *MongoSchedulerRepo) UpsertUnavailability(ctx context.Context, u *models.Unavailability) error {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"city_id": u.CityID, "unavailable_date": u.UnavailableDate}
	var existing models.Unavailability
	err := repo.unavailabilityColl.FindOne(cctx, filter).Decode(&existing)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		id, err := repo.nextID(cctx, "unavailabilities")
		if err != nil {
			return err
		}
		u.ID = id
	case err != nil:
		return fmt.Errorf("error looking up unavailability: %w", err)
	default:
		u.ID = existing.ID
	}

	_, err = repo.unavailabilityColl.ReplaceOne(cctx, filter, u, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting unavailability: %w", err)
	}
	return nil
}

func (repo *MongoSchedulerRepo) Counts(ctx context.Context) (models.Counts, error) {
	cctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var c models.Counts
	var err error
	if c.Bookings, err = repo.bookingColl.CountDocuments(cctx, bson.M{}); err != nil {
		return c, fmt.Errorf("count bookings: %w", err)
	}
	if c.Unavailabilities, err = repo.unavailabilityColl.CountDocuments(cctx, bson.M{}); err != nil {
		return c, fmt.Errorf("count unavailabilities: %w", err)
	}
	if c.Cities, err = repo.cityColl.CountDocuments(cctx, bson.M{}); err != nil {
		return c, fmt.Errorf("count cities: %w", err)
	}
	return c, nil
}
