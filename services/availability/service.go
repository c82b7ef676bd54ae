package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	availabilityRepo "crewly/database/repository/availability"
	"crewly/models"
)

// Service manages availability rules and absences on top of the resolver.
type Service interface {
	Resolver
	CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.AvailabilityRule, error)
	DeactivateRule(ctx context.Context, ruleID string) error
	CreateAbsence(ctx context.Context, req *models.CreateAbsenceRequest) (*models.StaffAbsence, error)
	DeleteAbsence(ctx context.Context, absenceID string) error
}

// DefaultService implements Service.
type DefaultService struct {
	DefaultResolver
}

// NewService builds the availability service over the given repository.
func NewService(repo availabilityRepo.AvailabilityRepository) *DefaultService {
	return &DefaultService{DefaultResolver{Repo: repo}}
}

func (s *DefaultService) CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.AvailabilityRule, error) {
	rule := &models.AvailabilityRule{
		StaffID:  req.StaffID,
		Type:     req.Type,
		Breaks:   req.Breaks,
		Priority: req.Priority,
		IsActive: true,
	}
	if rule.Priority == "" {
		rule.Priority = models.PriorityMedium
	}

	switch req.Type {
	case models.RuleRecurring:
		if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
			return nil, fmt.Errorf("dayOfWeek must be 0-6, got %d", req.DayOfWeek)
		}
		if req.StartMinute < 0 || req.EndMinute > minutesPerDay || req.StartMinute >= req.EndMinute {
			return nil, &models.InvalidRangeError{Duration: req.EndMinute - req.StartMinute}
		}
		rule.DayOfWeek = req.DayOfWeek
		rule.StartMinute = req.StartMinute
		rule.EndMinute = req.EndMinute
		if err := validateBreaks(req.Breaks, req.StartMinute, req.EndMinute); err != nil {
			return nil, err
		}
	case models.RuleOneTime:
		startAt, err := time.Parse(time.RFC3339, req.StartAt)
		if err != nil {
			return nil, fmt.Errorf("invalid startAt: %w", err)
		}
		endAt, err := time.Parse(time.RFC3339, req.EndAt)
		if err != nil {
			return nil, fmt.Errorf("invalid endAt: %w", err)
		}
		if !startAt.Before(endAt) {
			return nil, &models.InvalidRangeError{StartDate: req.StartAt, EndDate: req.EndAt}
		}
		rule.StartAt = startAt
		rule.EndAt = endAt
		day := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())
		if err := validateBreaks(req.Breaks, clampMinutes(startAt, day), clampMinutes(endAt, day)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown rule type %q", req.Type)
	}

	if _, err := s.Repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// validateBreaks requires breaks to be non-overlapping and contained in
// the rule's span.
func validateBreaks(breaks []models.BreakWindow, spanStart, spanEnd int) error {
	if len(breaks) == 0 {
		return nil
	}
	sorted := make([]models.BreakWindow, len(breaks))
	copy(sorted, breaks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	prevEnd := spanStart
	for _, br := range sorted {
		if br.Start >= br.End {
			return &models.InvalidRangeError{Duration: br.End - br.Start}
		}
		if br.Start < spanStart || br.End > spanEnd {
			return fmt.Errorf("break [%d,%d) outside rule span [%d,%d)", br.Start, br.End, spanStart, spanEnd)
		}
		if br.Start < prevEnd {
			return fmt.Errorf("breaks overlap at minute %d", br.Start)
		}
		prevEnd = br.End
	}
	return nil
}

func (s *DefaultService) DeactivateRule(ctx context.Context, ruleID string) error {
	// Soft disable: historical job cards may reference the period.
	return s.Repo.DeactivateRule(ctx, ruleID)
}

func (s *DefaultService) CreateAbsence(ctx context.Context, req *models.CreateAbsenceRequest) (*models.StaffAbsence, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, fmt.Errorf("invalid startAt: %w", err)
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, fmt.Errorf("invalid endAt: %w", err)
	}
	if !startAt.Before(endAt) {
		return nil, &models.InvalidRangeError{StartDate: req.StartAt, EndDate: req.EndAt}
	}

	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}
	absence := &models.StaffAbsence{
		StaffID:  req.StaffID,
		StartAt:  startAt,
		EndAt:    endAt,
		Reason:   req.Reason,
		Approved: approved,
	}
	if _, err := s.Repo.CreateAbsence(ctx, absence); err != nil {
		return nil, err
	}
	return absence, nil
}

func (s *DefaultService) DeleteAbsence(ctx context.Context, absenceID string) error {
	return s.Repo.DeleteAbsence(ctx, absenceID)
}
