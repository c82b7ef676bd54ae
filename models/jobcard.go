package models

import "time"

// JobCard statuses.
const (
	JobNotStarted = "NOT_STARTED"
	JobInProgress = "IN_PROGRESS"
	JobCompleted  = "COMPLETED"
	JobCancelled  = "CANCELLED"
)

// Job card priorities.
const (
	JobPriorityLow    = "LOW"
	JobPriorityNormal = "NORMAL"
	JobPriorityHigh   = "HIGH"
)

// Step is one ordered unit of work on a job card. Steps must be completed
// in ascending OrderIndex order.
type Step struct {
	Name        string     `bson:"name" json:"name"`
	OrderIndex  int        `bson:"orderIndex" json:"orderIndex"`
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// JobCard tracks step-by-step fulfillment of a confirmed booking.
// At most one job card exists per booking.
type JobCard struct {
	ID        string     `bson:"id" json:"id"`
	BookingID string     `bson:"bookingId" json:"bookingId"`
	StaffID   string     `bson:"staffId,omitempty" json:"staffId,omitempty"`
	Steps     []Step     `bson:"steps" json:"steps"`
	Status    string     `bson:"status" json:"status"`
	Deadline  *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Priority  string     `bson:"priority" json:"priority"`
	Version   int        `bson:"version" json:"version"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	StartedAt *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
}

// AllStepsCompleted reports whether every step on the card is done.
func (jc *JobCard) AllStepsCompleted() bool {
	for _, s := range jc.Steps {
		if !s.Completed {
			return false
		}
	}
	return true
}

// FirstIncompleteIndex returns the OrderIndex of the earliest incomplete
// step, or -1 if all steps are completed.
func (jc *JobCard) FirstIncompleteIndex() int {
	idx := -1
	for _, s := range jc.Steps {
		if !s.Completed && (idx == -1 || s.OrderIndex < idx) {
			idx = s.OrderIndex
		}
	}
	return idx
}
