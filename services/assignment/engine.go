package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingRepo "crewly/database/repository/booking"
	"crewly/models"
	"crewly/services/availability"
	"crewly/utils"
)

// Engine validates and commits staff-to-booking assignments. The
// availability and conflict checks run under a per-staff lock together
// with the write that commits the assignment, so two concurrent
// assignments for overlapping windows cannot both pass validation.
type Engine interface {
	Assign(ctx context.Context, bookingID, staffID string) (*models.Booking, error)
	Unassign(ctx context.Context, bookingID string) (*models.Booking, error)
	// ValidateStaff checks window coverage and commitment conflicts for
	// a staff member without writing anything. Used by the job card
	// workflow when the executor diverges from the booking's staff.
	ValidateStaff(ctx context.Context, staffID string, w models.SlotWindow, excludeBookingID string) error
}

// DefaultEngine is the production implementation.
type DefaultEngine struct {
	Bookings bookingRepo.BookingRepository
	Resolver availability.Resolver
	Locker   utils.Locker
}

func (e *DefaultEngine) Assign(ctx context.Context, bookingID, staffID string) (*models.Booking, error) {
	booking, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Terminal() {
		return nil, &models.InvalidTransitionError{
			Entity:    "booking",
			Current:   booking.Status,
			Attempted: "assign staff",
		}
	}
	// Re-assigning the same staff is a no-op, not a conflict.
	if booking.StaffID == staffID {
		return booking, nil
	}

	unlock, err := e.lockStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < utils.VersionRetries; attempt++ {
		if attempt > 0 {
			booking, err = e.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return nil, err
			}
			if booking.Terminal() {
				return nil, &models.InvalidTransitionError{
					Entity:    "booking",
					Current:   booking.Status,
					Attempted: "assign staff",
				}
			}
			if booking.StaffID == staffID {
				return booking, nil
			}
		}
		if err := e.ValidateStaff(ctx, staffID, booking.Window(), booking.ID); err != nil {
			return nil, err
		}

		booking.StaffID = staffID
		err = e.Bookings.Update(ctx, booking)
		if err == nil {
			utils.GetLogger().Info("staff assigned",
				zap.String("bookingId", booking.ID),
				zap.String("staffId", staffID))
			return booking, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (e *DefaultEngine) Unassign(ctx context.Context, bookingID string) (*models.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < utils.VersionRetries; attempt++ {
		booking, err := e.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.StaffID == "" {
			return booking, nil
		}

		booking.StaffID = ""
		err = e.Bookings.Update(ctx, booking)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (e *DefaultEngine) ValidateStaff(ctx context.Context, staffID string, w models.SlotWindow, excludeBookingID string) error {
	open, err := e.Resolver.Resolve(ctx, staffID, w.Date)
	if err != nil {
		return err
	}
	covered := false
	for _, iv := range open {
		if iv.Covers(w.Start, w.End) {
			covered = true
			break
		}
	}
	if !covered {
		return &models.StaffUnavailableError{StaffID: staffID, Date: w.Date}
	}

	conflict, err := e.Bookings.FindOverlappingCommitment(ctx, staffID, w, excludeBookingID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &models.StaffConflictError{StaffID: staffID, ConflictBookingID: conflict.ID}
	}
	return nil
}

// lockStaff serializes assignment attempts per staff member.
func (e *DefaultEngine) lockStaff(ctx context.Context, staffID string) (func(), error) {
	key := "assign:staff:" + staffID
	for attempt := 0; attempt < utils.AssignLockRetries; attempt++ {
		ok, err := e.Locker.Lock(ctx, key, utils.AssignLockTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				if err := e.Locker.Unlock(context.Background(), key); err != nil {
					utils.GetLogger().Warn("failed to release assignment lock",
						zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(utils.AssignLockRetryDelay):
		}
	}
	return nil, fmt.Errorf("could not acquire assignment lock for staff %s", staffID)
}
