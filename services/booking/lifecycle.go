package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "crewly/database/repository/booking"
	timeslotRepo "crewly/database/repository/timeslot"
	"crewly/models"
	"crewly/services/assignment"
	"crewly/services/notification"
	"crewly/services/payment"
	"crewly/utils"
)

// JobCardGate is the slice of the job card workflow the lifecycle needs:
// reading the card status before completing a booking and cascading a
// cancellation into the card.
type JobCardGate interface {
	StatusForBooking(ctx context.Context, bookingID string) (string, error)
	CancelForBooking(ctx context.Context, bookingID string) error
}

// Lifecycle is the booking state machine. Every status change goes
// through these entry points so slot and staff accounting stay
// consistent; nothing else writes Booking.Status.
type Lifecycle interface {
	Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID, staffID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, reason string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListByStaff(ctx context.Context, staffID, date string) ([]models.Booking, error)
}

// DefaultLifecycle is the production implementation.
type DefaultLifecycle struct {
	Bookings bookingRepo.BookingRepository
	Slots    timeslotRepo.TimeSlotRepository
	Engine   assignment.Engine
	JobCards JobCardGate
	Payments payment.CaptureTrigger
	Events   notification.Publisher
}

// Create reserves the slot first; only a successful book persists a
// PENDING booking. A failed persist releases the reservation again.
func (l *DefaultLifecycle) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	slot, err := l.Slots.GetByID(ctx, req.TimeSlotID)
	if err != nil {
		return nil, err
	}

	if err := l.Slots.Book(ctx, slot.ID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ServiceID:       req.ServiceID,
		CustomerID:      req.CustomerID,
		TimeSlotID:      slot.ID,
		Date:            slot.Date,
		Start:           slot.Start,
		End:             slot.End,
		Status:          models.BookingPending,
		Notes:           req.Notes,
		SpecialRequests: req.SpecialRequests,
		PaymentIntentID: req.PaymentIntentID,
	}
	if _, err := l.Bookings.Create(ctx, booking); err != nil {
		if unbookErr := l.Slots.Unbook(ctx, slot.ID); unbookErr != nil {
			utils.GetLogger().Error("failed to release slot after booking persist failure",
				zap.String("slotId", slot.ID), zap.Error(unbookErr))
		}
		return nil, err
	}

	utils.GetLogger().Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("slotId", slot.ID),
		zap.String("date", booking.Date))
	return booking, nil
}

// Confirm runs the assignment and moves PENDING to CONFIRMED.
// Re-confirming with the same staff is a no-op.
func (l *DefaultLifecycle) Confirm(ctx context.Context, bookingID, staffID string) (*models.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < utils.VersionRetries; attempt++ {
		booking, err := l.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.Status == models.BookingConfirmed && booking.StaffID == staffID {
			return booking, nil
		}
		if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
			return nil, &models.InvalidTransitionError{
				Entity:    "booking",
				Current:   booking.Status,
				Attempted: "confirm",
			}
		}

		booking, err = l.Engine.Assign(ctx, bookingID, staffID)
		if err != nil {
			return nil, err
		}

		firstConfirm := booking.Status != models.BookingConfirmed
		now := time.Now()
		booking.Status = models.BookingConfirmed
		if booking.ConfirmedAt == nil {
			booking.ConfirmedAt = &now
		}
		err = l.Bookings.Update(ctx, booking)
		if errors.Is(err, models.ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		if firstConfirm {
			if err := l.Payments.CaptureBookingPayment(ctx, booking); err != nil {
				// Capture is best-effort; payments reconcile out of band.
				utils.GetLogger().Warn("capture trigger failed on confirmation",
					zap.String("bookingId", booking.ID), zap.Error(err))
			}
			l.publish(ctx, booking, models.EventBookingConfirmed)
		}
		return booking, nil
	}
	return nil, lastErr
}

// Cancel is reachable from PENDING or CONFIRMED. It cascades into the
// job card, clears the assignment and releases the slot. The slot is
// released only after the CANCELLED write wins, so a retried Cancel
// cannot decrement the slot twice; the card cascade and unassign are
// idempotent and safe to repeat.
func (l *DefaultLifecycle) Cancel(ctx context.Context, bookingID, reason string) (*models.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < utils.VersionRetries; attempt++ {
		booking, err := l.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.Terminal() {
			return nil, &models.InvalidTransitionError{
				Entity:    "booking",
				Current:   booking.Status,
				Attempted: "cancel",
			}
		}

		if err := l.JobCards.CancelForBooking(ctx, booking.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		if booking.StaffID != "" {
			booking, err = l.Engine.Unassign(ctx, bookingID)
			if err != nil {
				return nil, err
			}
		}

		now := time.Now()
		booking.Status = models.BookingCancelled
		booking.CancelledAt = &now
		booking.CancelReason = reason
		err = l.Bookings.Update(ctx, booking)
		if errors.Is(err, models.ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := l.Slots.Unbook(ctx, booking.TimeSlotID); err != nil {
			utils.GetLogger().Error("failed to release slot for cancelled booking",
				zap.String("bookingId", booking.ID),
				zap.String("slotId", booking.TimeSlotID),
				zap.Error(err))
		}

		utils.GetLogger().Info("booking cancelled",
			zap.String("bookingId", booking.ID),
			zap.String("reason", reason))
		l.publish(ctx, booking, models.EventBookingCancelled)
		return booking, nil
	}
	return nil, lastErr
}

// Complete closes a CONFIRMED booking whose job card reported COMPLETED.
// Completing an already COMPLETED booking is a no-op so the card
// workflow can repeat the hand-off after a failed attempt.
func (l *DefaultLifecycle) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < utils.VersionRetries; attempt++ {
		booking, err := l.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.Status == models.BookingCompleted {
			return booking, nil
		}
		if booking.Status != models.BookingConfirmed {
			return nil, &models.InvalidTransitionError{
				Entity:    "booking",
				Current:   booking.Status,
				Attempted: "complete",
			}
		}

		cardStatus, err := l.JobCards.StatusForBooking(ctx, booking.ID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.InvalidTransitionError{
				Entity:    "booking",
				Current:   booking.Status,
				Attempted: "complete without job card",
			}
		}
		if err != nil {
			return nil, err
		}
		if cardStatus != models.JobCompleted {
			return nil, &models.InvalidTransitionError{
				Entity:    "booking",
				Current:   booking.Status,
				Attempted: "complete with job card " + cardStatus,
			}
		}

		now := time.Now()
		booking.Status = models.BookingCompleted
		booking.CompletedAt = &now
		err = l.Bookings.Update(ctx, booking)
		if errors.Is(err, models.ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		l.publish(ctx, booking, models.EventBookingCompleted)
		l.publish(ctx, booking, models.EventReceiptRequested)
		return booking, nil
	}
	return nil, lastErr
}

func (l *DefaultLifecycle) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	return l.Bookings.GetByID(ctx, bookingID)
}

func (l *DefaultLifecycle) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return l.Bookings.ListByCustomer(ctx, customerID)
}

func (l *DefaultLifecycle) ListByStaff(ctx context.Context, staffID, date string) ([]models.Booking, error) {
	return l.Bookings.ListByStaffAndDate(ctx, staffID, date)
}

func (l *DefaultLifecycle) publish(ctx context.Context, booking *models.Booking, kind string) {
	event := models.BookingEvent{
		Kind:       kind,
		BookingID:  booking.ID,
		ServiceID:  booking.ServiceID,
		CustomerID: booking.CustomerID,
		StaffID:    booking.StaffID,
		Date:       booking.Date,
		Start:      booking.Start,
		End:        booking.End,
		OccurredAt: time.Now(),
	}
	// Fire-and-forget; the publisher logs its own failures.
	_ = l.Events.PublishBookingEvent(ctx, event)
}
