package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"crewly/models"
)

const opTimeout = 5 * time.Second

func (r *mongoAvailabilityRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.CreatedAt = time.Now()
	if _, err := r.rules.InsertOne(ctx, rule); err != nil {
		return "", err
	}
	return rule.ID, nil
}

func (r *mongoAvailabilityRepo) GetRule(ctx context.Context, ruleID string) (*models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rule models.AvailabilityRule
	err := r.rules.FindOne(ctx, bson.M{"id": ruleID}).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *mongoAvailabilityRepo) UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.rules.ReplaceOne(ctx, bson.M{"id": rule.ID}, rule)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) DeactivateRule(ctx context.Context, ruleID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.rules.UpdateOne(ctx, bson.M{"id": ruleID}, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) ListActiveRules(ctx context.Context, staffID string) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.rules.Find(ctx, bson.M{"staffId": staffID, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) CreateAbsence(ctx context.Context, absence *models.StaffAbsence) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if absence.ID == "" {
		absence.ID = uuid.New().String()
	}
	absence.CreatedAt = time.Now()
	if _, err := r.absences.InsertOne(ctx, absence); err != nil {
		return "", err
	}
	return absence.ID, nil
}

func (r *mongoAvailabilityRepo) DeleteAbsence(ctx context.Context, absenceID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.absences.DeleteOne(ctx, bson.M{"id": absenceID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) ListAbsencesOverlapping(ctx context.Context, staffID string, from, to time.Time) ([]models.StaffAbsence, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"staffId":  staffID,
		"approved": true,
		"startAt":  bson.M{"$lt": to},
		"endAt":    bson.M{"$gt": from},
	}
	cursor, err := r.absences.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var absences []models.StaffAbsence
	if err := cursor.All(ctx, &absences); err != nil {
		return nil, err
	}
	return absences, nil
}
