package jobcard

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	bookingRepo "crewly/database/repository/booking"
	jobcardRepo "crewly/database/repository/jobcard"
	"crewly/models"
	"crewly/services/assignment"
	"crewly/utils"
)

// BookingCompleter is the slice of the booking lifecycle the workflow
// signals when a card finishes.
type BookingCompleter interface {
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
}

// Workflow drives a job card through its steps. Step completion must
// follow ascending order and the card only completes once every step is
// done, which in turn completes the booking.
type Workflow interface {
	Create(ctx context.Context, bookingID string, req *models.CreateJobCardRequest) (*models.JobCard, error)
	Get(ctx context.Context, cardID string) (*models.JobCard, error)
	GetByBooking(ctx context.Context, bookingID string) (*models.JobCard, error)
	AssignStaff(ctx context.Context, cardID, staffID string) (*models.JobCard, error)
	Start(ctx context.Context, cardID string) (*models.JobCard, error)
	AddStep(ctx context.Context, cardID, name string, orderIndex int) (*models.JobCard, error)
	RemoveStep(ctx context.Context, cardID string, index int) (*models.JobCard, error)
	CompleteStep(ctx context.Context, cardID string, index int) (*models.JobCard, error)
	Complete(ctx context.Context, cardID string) (*models.JobCard, error)
	Cancel(ctx context.Context, cardID string) (*models.JobCard, error)

	// Gate used by the booking lifecycle.
	StatusForBooking(ctx context.Context, bookingID string) (string, error)
	CancelForBooking(ctx context.Context, bookingID string) error
}

// DefaultWorkflow is the production implementation.
type DefaultWorkflow struct {
	Cards     jobcardRepo.JobCardRepository
	Bookings  bookingRepo.BookingRepository
	Engine    assignment.Engine
	Completer BookingCompleter
}

// Create opens the execution tracker for a confirmed booking, at most
// once; the unique bookingId index backstops concurrent creates.
func (w *DefaultWorkflow) Create(ctx context.Context, bookingID string, req *models.CreateJobCardRequest) (*models.JobCard, error) {
	booking, err := w.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingConfirmed {
		return nil, &models.InvalidTransitionError{
			Entity:    "jobcard",
			Current:   booking.Status,
			Attempted: "create for unconfirmed booking",
		}
	}

	card := &models.JobCard{
		BookingID: booking.ID,
		StaffID:   booking.StaffID,
		Status:    models.JobNotStarted,
		Priority:  req.Priority,
	}
	if card.Priority == "" {
		card.Priority = models.JobPriorityNormal
	}
	for i, name := range req.Steps {
		card.Steps = append(card.Steps, models.Step{Name: name, OrderIndex: i})
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return nil, err
		}
		card.Deadline = &deadline
	}

	if _, err := w.Cards.Create(ctx, card); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("job card created",
		zap.String("cardId", card.ID),
		zap.String("bookingId", booking.ID),
		zap.Int("steps", len(card.Steps)))
	return card, nil
}

func (w *DefaultWorkflow) Get(ctx context.Context, cardID string) (*models.JobCard, error) {
	return w.Cards.GetByID(ctx, cardID)
}

func (w *DefaultWorkflow) GetByBooking(ctx context.Context, bookingID string) (*models.JobCard, error) {
	return w.Cards.GetByBookingID(ctx, bookingID)
}

// AssignStaff binds the executor, who may differ from the booking's
// assigned staff but must pass the same availability and conflict checks.
func (w *DefaultWorkflow) AssignStaff(ctx context.Context, cardID, staffID string) (*models.JobCard, error) {
	return w.update(ctx, cardID, func(card *models.JobCard) error {
		if card.Status == models.JobCompleted || card.Status == models.JobCancelled {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "assign staff",
			}
		}
		if card.StaffID == staffID {
			return nil
		}
		booking, err := w.Bookings.GetByID(ctx, card.BookingID)
		if err != nil {
			return err
		}
		if err := w.Engine.ValidateStaff(ctx, staffID, booking.Window(), booking.ID); err != nil {
			return err
		}
		card.StaffID = staffID
		return nil
	})
}

func (w *DefaultWorkflow) Start(ctx context.Context, cardID string) (*models.JobCard, error) {
	return w.update(ctx, cardID, func(card *models.JobCard) error {
		if card.Status != models.JobNotStarted {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "start",
			}
		}
		if card.StaffID == "" {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "start without staff",
			}
		}
		now := time.Now()
		card.Status = models.JobInProgress
		card.StartedAt = &now
		return nil
	})
}

// AddStep appends a step, or inserts it at orderIndex shifting later
// steps up. Inserting at or before an already completed step would break
// the completion order and is rejected.
func (w *DefaultWorkflow) AddStep(ctx context.Context, cardID, name string, orderIndex int) (*models.JobCard, error) {
	return w.update(ctx, cardID, func(card *models.JobCard) error {
		if card.Status == models.JobCompleted || card.Status == models.JobCancelled {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "add step",
			}
		}
		next := 0
		lastCompleted := -1
		for _, s := range card.Steps {
			if s.OrderIndex >= next {
				next = s.OrderIndex + 1
			}
			if s.Completed && s.OrderIndex > lastCompleted {
				lastCompleted = s.OrderIndex
			}
		}
		if orderIndex < 0 {
			orderIndex = next
		}
		if orderIndex <= lastCompleted {
			return &models.OutOfOrderStepError{Index: orderIndex, BlockingIndex: lastCompleted}
		}
		for i := range card.Steps {
			if card.Steps[i].OrderIndex >= orderIndex {
				card.Steps[i].OrderIndex++
			}
		}
		card.Steps = append(card.Steps, models.Step{Name: name, OrderIndex: orderIndex})
		sort.Slice(card.Steps, func(i, j int) bool {
			return card.Steps[i].OrderIndex < card.Steps[j].OrderIndex
		})
		return nil
	})
}

func (w *DefaultWorkflow) RemoveStep(ctx context.Context, cardID string, index int) (*models.JobCard, error) {
	return w.update(ctx, cardID, func(card *models.JobCard) error {
		if card.Status == models.JobCompleted || card.Status == models.JobCancelled {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "remove step",
			}
		}
		for i, s := range card.Steps {
			if s.OrderIndex != index {
				continue
			}
			if s.Completed {
				return &models.StepNotRemovableError{Index: index}
			}
			card.Steps = append(card.Steps[:i], card.Steps[i+1:]...)
			return nil
		}
		return models.ErrNotFound
	})
}

func (w *DefaultWorkflow) CompleteStep(ctx context.Context, cardID string, index int) (*models.JobCard, error) {
	return w.update(ctx, cardID, func(card *models.JobCard) error {
		if card.Status != models.JobInProgress {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "complete step",
			}
		}
		for i, s := range card.Steps {
			if s.OrderIndex != index {
				continue
			}
			if s.Completed {
				return nil
			}
			if first := card.FirstIncompleteIndex(); first >= 0 && first < index {
				return &models.OutOfOrderStepError{Index: index, BlockingIndex: first}
			}
			now := time.Now()
			card.Steps[i].Completed = true
			card.Steps[i].CompletedAt = &now
			return nil
		}
		return models.ErrNotFound
	})
}

// Complete closes the card once every step is done and signals the
// booking lifecycle. A card that already closed may still owe the
// booking its completion signal, so a retry repeats the hand-off
// instead of rejecting the transition.
func (w *DefaultWorkflow) Complete(ctx context.Context, cardID string) (*models.JobCard, error) {
	existing, err := w.Cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.JobCompleted {
		if _, err := w.Completer.Complete(ctx, existing.BookingID); err != nil {
			return nil, err
		}
		return existing, nil
	}

	card, err := w.update(ctx, cardID, func(card *models.JobCard) error {
		if card.Status != models.JobInProgress {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "complete",
			}
		}
		if !card.AllStepsCompleted() {
			return &models.InvalidTransitionError{
				Entity:    "jobcard",
				Current:   card.Status,
				Attempted: "complete with incomplete steps",
			}
		}
		card.Status = models.JobCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := w.Completer.Complete(ctx, card.BookingID); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("job card completed",
		zap.String("cardId", card.ID),
		zap.String("bookingId", card.BookingID))
	return card, nil
}

func (w *DefaultWorkflow) Cancel(ctx context.Context, cardID string) (*models.JobCard, error) {
	return w.update(ctx, cardID, func(card *models.JobCard) error {
		return cancelCard(card)
	})
}

func cancelCard(card *models.JobCard) error {
	if card.Status != models.JobNotStarted && card.Status != models.JobInProgress {
		return &models.InvalidTransitionError{
			Entity:    "jobcard",
			Current:   card.Status,
			Attempted: "cancel",
		}
	}
	card.Status = models.JobCancelled
	return nil
}

func (w *DefaultWorkflow) StatusForBooking(ctx context.Context, bookingID string) (string, error) {
	card, err := w.Cards.GetByBookingID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	return card.Status, nil
}

// CancelForBooking cascades a booking cancellation into the card. A
// missing card or an already terminal card is fine.
func (w *DefaultWorkflow) CancelForBooking(ctx context.Context, bookingID string) error {
	card, err := w.Cards.GetByBookingID(ctx, bookingID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if card.Status == models.JobCompleted || card.Status == models.JobCancelled {
		return nil
	}
	_, err = w.update(ctx, card.ID, func(card *models.JobCard) error {
		if card.Status == models.JobCompleted || card.Status == models.JobCancelled {
			return nil
		}
		return cancelCard(card)
	})
	return err
}

// update runs mutate on a fresh copy of the card and persists it with
// the optimistic version check, retrying a bounded number of times on
// concurrent updates.
func (w *DefaultWorkflow) update(ctx context.Context, cardID string, mutate func(*models.JobCard) error) (*models.JobCard, error) {
	var lastErr error
	for attempt := 0; attempt < utils.VersionRetries; attempt++ {
		card, err := w.Cards.GetByID(ctx, cardID)
		if err != nil {
			return nil, err
		}
		if err := mutate(card); err != nil {
			return nil, err
		}
		err = w.Cards.Update(ctx, card)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
