package models

import "time"

// Outbound booking event kinds, consumed by external collaborators
// (notification delivery, receipt generation) on a best-effort basis.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventReceiptRequested = "receipt.requested"
)

// BookingEvent is the payload enqueued for asynchronous outbound delivery.
type BookingEvent struct {
	Kind       string    `json:"kind"`
	BookingID  string    `json:"bookingId"`
	ServiceID  string    `json:"serviceId"`
	CustomerID string    `json:"customerId"`
	StaffID    string    `json:"staffId,omitempty"`
	Date       string    `json:"date"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
	OccurredAt time.Time `json:"occurredAt"`
}
