package models

import "time"

// Booking statuses.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Booking is a customer's reservation against a service and time slot.
// Status changes only flow through the lifecycle service so slot and
// staff accounting stay consistent.
type Booking struct {
	ID              string     `bson:"id" json:"id"`
	ServiceID       string     `bson:"serviceId" json:"serviceId"`
	CustomerID      string     `bson:"customerId" json:"customerId"`
	StaffID         string     `bson:"staffId,omitempty" json:"staffId,omitempty"`
	TimeSlotID      string     `bson:"timeSlotId" json:"timeSlotId"`
	Date            string     `bson:"date" json:"date"`
	Start           int        `bson:"start" json:"start"`
	End             int        `bson:"end" json:"end"`
	Status          string     `bson:"status" json:"status"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"`
	SpecialRequests string     `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	PaymentIntentID string     `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	CancelReason    string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	Version         int        `bson:"version" json:"version"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
	ConfirmedAt     *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CancelledAt     *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// Window returns the booking's slot window for overlap checks.
func (b *Booking) Window() SlotWindow {
	return SlotWindow{Date: b.Date, Start: b.Start, End: b.End}
}

// Terminal reports whether the booking has reached a final status.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}
