package timeslotRepo

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

func (r *mongoTimeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	slot.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return "", err
	}
	return slot.ID, nil
}

func (r *mongoTimeSlotRepo) UpsertGenerated(ctx context.Context, slots []models.TimeSlot) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(slots))
	for _, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.CreatedAt = time.Now()
		filter := bson.M{"serviceId": slot.ServiceID, "date": slot.Date, "start": slot.Start}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(bson.M{"$setOnInsert": slot}).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return 0, nil
	}

	res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount), nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var slot models.TimeSlot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	return r.list(ctx, bson.M{"serviceId": serviceID, "date": date})
}

func (r *mongoTimeSlotRepo) ListAvailable(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	return r.list(ctx, bson.M{
		"serviceId": serviceID,
		"date":      date,
		"blocked":   false,
		"$expr":     bson.M{"$lt": bson.A{"$bookedCount", "$maxCapacity"}},
	})
}

func (r *mongoTimeSlotRepo) list(ctx context.Context, filter bson.M) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Slots referenced by active bookings keep a non-zero bookedCount,
	// so this guard also enforces the no-delete-while-referenced rule.
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID, "bookedCount": 0})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		slot, err := r.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		return &models.SlotUnavailableError{SlotID: slot.ID, Reason: "slot has active bookings"}
	}
	return nil
}
