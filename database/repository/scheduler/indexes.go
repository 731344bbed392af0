package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for fields frequently used in queries.
func (repo *MongoSchedulerRepo) ensureIndexes(ctx context.Context) error {
	cctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	specs := map[*mongo.Collection][]mongo.IndexModel{
		repo.cityColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repo.bookingColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "city_id", Value: 1}, {Key: "booking_date", Value: -1}, {Key: "booking_time", Value: -1}}},
		},
		repo.unavailabilityColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "city_id", Value: 1}, {Key: "unavailable_date", Value: -1}}},
		},
	}
	for coll, idx := range specs {
		if _, err := coll.Indexes().CreateMany(cctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}
