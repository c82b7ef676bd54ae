package timeslotRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"crewly/database"
	"crewly/models"
)

// TimeSlotRepository owns bookable slot records. All mutating operations
// are single atomic conditional updates so concurrent book/unbook calls
// on the same slot cannot race past capacity.
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *models.TimeSlot) (string, error)
	// UpsertGenerated inserts generated slots keyed by (serviceId, date,
	// start); slots already present are left untouched. Returns the
	// number of newly created slots.
	UpsertGenerated(ctx context.Context, slots []models.TimeSlot) (int, error)
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error)
	ListAvailable(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error)

	// Book increments bookedCount iff the slot is not blocked and has
	// free capacity; otherwise SlotUnavailableError.
	Book(ctx context.Context, slotID string) error
	// Unbook decrements bookedCount, floored at zero. Unbooking an empty
	// slot is a no-op.
	Unbook(ctx context.Context, slotID string) error
	// SetBlocked toggles the manual block flag. Blocking a slot with
	// active bookings is rejected unless force is set.
	SetBlocked(ctx context.Context, slotID string, blocked bool, reason string, force bool) error
	// UpdateCapacity fails with CapacityBelowBookedError if the new
	// capacity is below the current booked count.
	UpdateCapacity(ctx context.Context, slotID string, newCapacity int) error
	// DeleteByID removes a slot; refused while bookings reference it.
	DeleteByID(ctx context.Context, slotID string) error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a MongoDB-backed TimeSlotRepository.
func NewMongoTimeSlotRepo() TimeSlotRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoTimeSlotRepo{
		coll: db.Collection("timeslots"),
	}
}
