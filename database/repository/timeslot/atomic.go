package timeslotRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"crewly/models"
)

// Book increments bookedCount with a single conditional update. The
// capacity and block checks live in the filter, so there is no window
// between check and increment for a concurrent booking to slip through.
func (r *mongoTimeSlotRepo) Book(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"id":      slotID,
		"blocked": false,
		"$expr":   bson.M{"$lt": bson.A{"$bookedCount", "$maxCapacity"}},
	}
	update := bson.M{"$inc": bson.M{"bookedCount": 1, "version": 1}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return r.classifyBookFailure(ctx, slotID)
	}
	return nil
}

// classifyBookFailure reloads the slot to explain why the conditional
// update matched nothing.
func (r *mongoTimeSlotRepo) classifyBookFailure(ctx context.Context, slotID string) error {
	slot, err := r.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.Blocked {
		return &models.SlotUnavailableError{SlotID: slotID, Reason: "slot is blocked"}
	}
	return &models.SlotUnavailableError{SlotID: slotID, Reason: "slot is fully booked"}
}

// Unbook decrements bookedCount, floored at zero. Releasing an empty
// slot is a no-op so cancellation stays idempotent.
func (r *mongoTimeSlotRepo) Unbook(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": slotID, "bookedCount": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"bookedCount": -1, "version": 1}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		// Distinguish "already empty" from "slot gone".
		if _, err := r.GetByID(ctx, slotID); err != nil {
			return err
		}
	}
	return nil
}

// SetBlocked toggles the manual block flag. Blocking a slot with active
// bookings is refused unless force is set.
func (r *mongoTimeSlotRepo) SetBlocked(ctx context.Context, slotID string, blocked bool, reason string, force bool) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": slotID}
	if blocked && !force {
		filter["bookedCount"] = 0
	}
	set := bson.M{"blocked": blocked, "blockReason": reason}
	if !blocked {
		set["blockReason"] = ""
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		slot, err := r.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		return &models.SlotUnavailableError{SlotID: slot.ID, Reason: "slot has active bookings"}
	}
	return nil
}

// UpdateCapacity changes maxCapacity; shrinking below the current booked
// count is refused in the same conditional update that applies it.
func (r *mongoTimeSlotRepo) UpdateCapacity(ctx context.Context, slotID string, newCapacity int) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": slotID, "bookedCount": bson.M{"$lte": newCapacity}}
	update := bson.M{
		"$set": bson.M{"maxCapacity": newCapacity},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		slot, err := r.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		return &models.CapacityBelowBookedError{
			SlotID:      slotID,
			BookedCount: slot.BookedCount,
			Requested:   newCapacity,
		}
	}
	return nil
}
