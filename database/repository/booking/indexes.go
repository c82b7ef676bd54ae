package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewly/database"
)

// EnsureBookingIndexes creates lookup indexes for bookings. The
// (staffId, date) index backs the assignment overlap query.
func EnsureBookingIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	coll := database.MongoClient.Database(database.DBName).Collection("bookings")
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "staffId", Value: 1}, {Key: "date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "customerId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "timeSlotId", Value: 1}},
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
