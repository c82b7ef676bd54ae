package bookingRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"crewly/database"
	"crewly/models"
)

// BookingRepository persists booking records. Status writes go through
// the lifecycle service; the repository only guarantees identity lookups
// and the overlap query used by the assignment conflict check.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (string, error)
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, bookingID string) error
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListByStaffAndDate(ctx context.Context, staffID, date string) ([]models.Booking, error)
	// FindOverlappingCommitment returns a booking of the given staff
	// member whose slot window intersects w, excluding excludeID. A
	// staff edge committed on a still-PENDING booking counts the same
	// as a CONFIRMED one. Returns (nil, nil) when the window is free.
	FindOverlappingCommitment(ctx context.Context, staffID string, w models.SlotWindow, excludeID string) (*models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
