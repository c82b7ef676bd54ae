package slots

import (
	"context"
	"time"

	"go.uber.org/zap"

	"crewly/config"
	timeslotRepo "crewly/database/repository/timeslot"
	"crewly/models"
	"crewly/utils"
)

// Service exposes slot generation and the manual slot administration
// operations. Booking-driven mutation (book/unbook) happens through the
// repository from the booking lifecycle so slot accounting stays inside
// one transition path.
type Service interface {
	Generate(ctx context.Context, req *models.GenerateSlotsRequest) (int, error)
	Get(ctx context.Context, slotID string) (*models.TimeSlot, error)
	ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error)
	ListAvailable(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error)
	Block(ctx context.Context, slotID, reason string, force bool) error
	Unblock(ctx context.Context, slotID string) error
	UpdateCapacity(ctx context.Context, slotID string, newCapacity int) error
	Delete(ctx context.Context, slotID string) error
}

// DefaultService implements Service.
type DefaultService struct {
	Repo timeslotRepo.TimeSlotRepository
}

// Generate tiles the business-hours window of every date in the range
// with consecutive slots of the requested duration. Re-running the same
// request is a no-op for slots that already exist.
func (s *DefaultService) Generate(ctx context.Context, req *models.GenerateSlotsRequest) (int, error) {
	if req.Duration <= 0 {
		return 0, &models.InvalidRangeError{StartDate: req.StartDate, EndDate: req.EndDate, Duration: req.Duration}
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return 0, &models.InvalidRangeError{StartDate: req.StartDate, EndDate: req.EndDate, Duration: req.Duration}
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return 0, &models.InvalidRangeError{StartDate: req.StartDate, EndDate: req.EndDate, Duration: req.Duration}
	}
	if endDate.Before(startDate) {
		return 0, &models.InvalidRangeError{StartDate: req.StartDate, EndDate: req.EndDate, Duration: req.Duration}
	}
	if horizon := config.AppConfig.SlotHorizonDays; horizon > 0 {
		if endDate.After(startDate.AddDate(0, 0, horizon)) {
			return 0, &models.InvalidRangeError{StartDate: req.StartDate, EndDate: req.EndDate, Duration: req.Duration}
		}
	}

	dayStart := req.DayStart
	dayEnd := req.DayEnd
	if dayStart == 0 && dayEnd == 0 {
		dayStart = config.AppConfig.BusinessDayStart
		dayEnd = config.AppConfig.BusinessDayEnd
	}
	if dayStart < 0 || dayEnd > 24*60 || dayStart >= dayEnd {
		return 0, &models.InvalidRangeError{StartDate: req.StartDate, EndDate: req.EndDate, Duration: req.Duration}
	}

	maxCapacity := req.MaxCapacity
	if maxCapacity <= 0 {
		maxCapacity = config.AppConfig.DefaultMaxCapacity
	}
	if maxCapacity <= 0 {
		maxCapacity = 1
	}

	var generated []models.TimeSlot
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format("2006-01-02")
		for start := dayStart; start+req.Duration <= dayEnd; start += req.Duration {
			generated = append(generated, models.TimeSlot{
				ServiceID:   req.ServiceID,
				TenantID:    req.TenantID,
				Date:        dateStr,
				Start:       start,
				End:         start + req.Duration,
				MaxCapacity: maxCapacity,
			})
		}
	}

	created, err := s.Repo.UpsertGenerated(ctx, generated)
	if err != nil {
		return 0, err
	}
	utils.GetLogger().Info("generated time slots",
		zap.String("serviceId", req.ServiceID),
		zap.String("from", req.StartDate),
		zap.String("to", req.EndDate),
		zap.Int("created", created),
		zap.Int("requested", len(generated)))
	return created, nil
}

func (s *DefaultService) Get(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return s.Repo.GetByID(ctx, slotID)
}

func (s *DefaultService) ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	return s.Repo.ListByServiceAndDate(ctx, serviceID, date)
}

func (s *DefaultService) ListAvailable(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	return s.Repo.ListAvailable(ctx, serviceID, date)
}

func (s *DefaultService) Block(ctx context.Context, slotID, reason string, force bool) error {
	return s.Repo.SetBlocked(ctx, slotID, true, reason, force)
}

func (s *DefaultService) Unblock(ctx context.Context, slotID string) error {
	return s.Repo.SetBlocked(ctx, slotID, false, "", false)
}

func (s *DefaultService) UpdateCapacity(ctx context.Context, slotID string, newCapacity int) error {
	if newCapacity < 1 {
		return &models.InvalidRangeError{Duration: newCapacity}
	}
	return s.Repo.UpdateCapacity(ctx, slotID, newCapacity)
}

func (s *DefaultService) Delete(ctx context.Context, slotID string) error {
	return s.Repo.DeleteByID(ctx, slotID)
}
