package models

import "time"

// TimeSlot represents a discrete bookable window for a service on a given date.
// Start and End are minutes from midnight (e.g., 540 for 9:00 AM).
type TimeSlot struct {
	ID          string    `bson:"id" json:"id"`
	ServiceID   string    `bson:"serviceId" json:"serviceId"`
	TenantID    string    `bson:"tenantId,omitempty" json:"tenantId,omitempty"`
	Date        string    `bson:"date" json:"date"` // "2006-01-02"
	Start       int       `bson:"start" json:"start"`
	End         int       `bson:"end" json:"end"`
	MaxCapacity int       `bson:"maxCapacity" json:"maxCapacity"`
	BookedCount int       `bson:"bookedCount" json:"bookedCount"`
	Blocked     bool      `bson:"blocked" json:"blocked"`
	BlockReason string    `bson:"blockReason,omitempty" json:"blockReason,omitempty"`
	Version     int       `bson:"version" json:"version"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Remaining returns the free capacity left on the slot.
func (ts *TimeSlot) Remaining() int {
	return ts.MaxCapacity - ts.BookedCount
}

// Bookable reports whether the slot can accept one more booking.
func (ts *TimeSlot) Bookable() bool {
	return !ts.Blocked && ts.BookedCount < ts.MaxCapacity
}

// SlotWindow is the minimal view of a slot's time extent, used for
// overlap checks against staff commitments.
type SlotWindow struct {
	Date  string `bson:"date" json:"date"`
	Start int    `bson:"start" json:"start"`
	End   int    `bson:"end" json:"end"`
}

// Overlaps reports whether two windows on the same date intersect.
func (w SlotWindow) Overlaps(other SlotWindow) bool {
	return w.Date == other.Date && w.Start < other.End && other.Start < w.End
}
