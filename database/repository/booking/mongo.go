package bookingRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewly/models"
)

const opTimeout = 5 * time.Second

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return "", err
	}
	return booking.ID, nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": booking.ID, "version": booking.Version}
	replacement := *booking
	replacement.Version = booking.Version + 1
	replacement.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, filter, &replacement)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, getErr := r.GetByID(ctx, booking.ID); getErr != nil {
			return getErr
		}
		return models.ErrVersionConflict
	}
	booking.Version = replacement.Version
	booking.UpdatedAt = replacement.UpdatedAt
	return nil
}

func (r *mongoBookingRepo) Delete(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": bookingID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"customerId": customerID})
}

func (r *mongoBookingRepo) ListByStaffAndDate(ctx context.Context, staffID, date string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"staffId": staffID, "date": date})
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoBookingRepo) FindOverlappingCommitment(ctx context.Context, staffID string, w models.SlotWindow, excludeID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// The staff edge lands while the booking is still PENDING, so a
	// PENDING booking with this staff already blocks the window.
	filter := bson.M{
		"staffId": staffID,
		"status":  bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
		"date":    w.Date,
		"start":   bson.M{"$lt": w.End},
		"end":     bson.M{"$gt": w.Start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
