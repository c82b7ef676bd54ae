package jobcardRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewly/database"
	"crewly/models"
)

const opTimeout = 5 * time.Second

func (r *mongoJobCardRepo) Create(ctx context.Context, card *models.JobCard) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now
	card.Version = 1
	if _, err := r.coll.InsertOne(ctx, card); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   "exists",
				Attempted: "create",
			}
		}
		return "", err
	}
	return card.ID, nil
}

func (r *mongoJobCardRepo) GetByID(ctx context.Context, cardID string) (*models.JobCard, error) {
	return r.get(ctx, bson.M{"id": cardID})
}

func (r *mongoJobCardRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.JobCard, error) {
	return r.get(ctx, bson.M{"bookingId": bookingID})
}

func (r *mongoJobCardRepo) get(ctx context.Context, filter bson.M) (*models.JobCard, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var card models.JobCard
	err := r.coll.FindOne(ctx, filter).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *mongoJobCardRepo) Update(ctx context.Context, card *models.JobCard) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": card.ID, "version": card.Version}
	replacement := *card
	replacement.Version = card.Version + 1
	replacement.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, filter, &replacement)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, getErr := r.GetByID(ctx, card.ID); getErr != nil {
			return getErr
		}
		return models.ErrVersionConflict
	}
	card.Version = replacement.Version
	card.UpdatedAt = replacement.UpdatedAt
	return nil
}

// EnsureJobCardIndexes creates the unique indexes enforcing card identity
// and the one-card-per-booking invariant.
func EnsureJobCardIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	coll := database.MongoClient.Database(database.DBName).Collection("jobcards")
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
