package jobcardRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"crewly/database"
	"crewly/models"
)

// JobCardRepository persists job cards. A unique index on bookingId
// enforces the one-card-per-booking rule at the storage layer; Update
// uses the card's version for optimistic concurrency so concurrent step
// completions cannot race.
type JobCardRepository interface {
	// Create inserts a new card. A duplicate bookingId surfaces as an
	// InvalidTransitionError since the card already exists.
	Create(ctx context.Context, card *models.JobCard) (string, error)
	GetByID(ctx context.Context, cardID string) (*models.JobCard, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.JobCard, error)
	// Update replaces the card iff the stored version matches
	// card.Version; on success the persisted version is incremented.
	// Mismatch returns models.ErrVersionConflict.
	Update(ctx context.Context, card *models.JobCard) error
}

type mongoJobCardRepo struct {
	coll *mongo.Collection
}

// NewMongoJobCardRepo constructs a MongoDB-backed JobCardRepository.
func NewMongoJobCardRepo() JobCardRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoJobCardRepo{
		coll: db.Collection("jobcards"),
	}
}
