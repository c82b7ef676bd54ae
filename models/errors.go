package models

import (
	"errors"
	"fmt"
)

// ErrVersionConflict signals an optimistic concurrency conflict on a
// versioned record. Callers may retry the operation a bounded number of
// times; every other domain error is only recoverable by changing input.
var ErrVersionConflict = errors.New("version conflict")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// InvalidRangeError reports a slot generation request with a reversed
// date range or non-positive duration.
type InvalidRangeError struct {
	StartDate string
	EndDate   string
	Duration  int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start=%s end=%s duration=%dm", e.StartDate, e.EndDate, e.Duration)
}

// SlotUnavailableError reports a book attempt on a blocked or full slot.
type SlotUnavailableError struct {
	SlotID string
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %s unavailable: %s", e.SlotID, e.Reason)
}

// CapacityBelowBookedError reports a capacity update below the current
// booked count.
type CapacityBelowBookedError struct {
	SlotID      string
	BookedCount int
	Requested   int
}

func (e *CapacityBelowBookedError) Error() string {
	return fmt.Sprintf("slot %s has %d active bookings; cannot reduce capacity to %d",
		e.SlotID, e.BookedCount, e.Requested)
}

// StaffUnavailableError reports an assignment whose window is not covered
// by the staff member's resolved availability.
type StaffUnavailableError struct {
	StaffID string
	Date    string
}

func (e *StaffUnavailableError) Error() string {
	return fmt.Sprintf("staff %s not available on %s for the requested window", e.StaffID, e.Date)
}

// StaffConflictError reports an assignment overlapping another active
// commitment of the same staff member.
type StaffConflictError struct {
	StaffID           string
	ConflictBookingID string
}

func (e *StaffConflictError) Error() string {
	return fmt.Sprintf("staff %s already assigned to overlapping booking %s", e.StaffID, e.ConflictBookingID)
}

// InvalidTransitionError reports a state machine violation. It always
// carries the current state and the attempted transition so clients can
// render a precise message.
type InvalidTransitionError struct {
	Entity    string // "booking" or "jobcard"
	Current   string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s in state %s cannot %s", e.Entity, e.Current, e.Attempted)
}

// OutOfOrderStepError reports a completion attempt on a step while an
// earlier step is still incomplete.
type OutOfOrderStepError struct {
	Index         int
	BlockingIndex int
}

func (e *OutOfOrderStepError) Error() string {
	return fmt.Sprintf("step %d cannot be completed before step %d", e.Index, e.BlockingIndex)
}

// StepNotRemovableError reports a removal attempt on an already
// completed step.
type StepNotRemovableError struct {
	Index int
}

func (e *StepNotRemovableError) Error() string {
	return fmt.Sprintf("step %d is already completed and cannot be removed", e.Index)
}
