package availabilityRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"crewly/database"
	"crewly/models"
)

// AvailabilityRepository persists staff availability rules and absences.
// Rules referenced by historical job cards are soft-disabled via
// isActive=false rather than deleted.
type AvailabilityRepository interface {
	CreateRule(ctx context.Context, rule *models.AvailabilityRule) (string, error)
	GetRule(ctx context.Context, ruleID string) (*models.AvailabilityRule, error)
	UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error
	DeactivateRule(ctx context.Context, ruleID string) error
	ListActiveRules(ctx context.Context, staffID string) ([]models.AvailabilityRule, error)

	CreateAbsence(ctx context.Context, absence *models.StaffAbsence) (string, error)
	DeleteAbsence(ctx context.Context, absenceID string) error
	ListAbsencesOverlapping(ctx context.Context, staffID string, from, to time.Time) ([]models.StaffAbsence, error)
}

type mongoAvailabilityRepo struct {
	rules    *mongo.Collection
	absences *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoAvailabilityRepo{
		rules:    db.Collection("availability_rules"),
		absences: db.Collection("staff_absences"),
	}
}
