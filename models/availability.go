package models

import "time"

// Availability rule kinds.
const (
	RuleOneTime   = "ONE_TIME"
	RuleRecurring = "RECURRING"
)

// Rule priorities, used to break ties between overlapping rules of the
// same kind. ONE_TIME beats RECURRING regardless of priority.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// BreakWindow is a sub-interval excluded from a rule's span, in minutes
// from midnight of the day the rule applies to.
type BreakWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// AvailabilityRule declares when a staff member can work. RECURRING rules
// repeat weekly on DayOfWeek between StartMinute and EndMinute; ONE_TIME
// rules cover the absolute span [StartAt, EndAt).
type AvailabilityRule struct {
	ID          string        `bson:"id" json:"id"`
	StaffID     string        `bson:"staffId" json:"staffId"`
	Type        string        `bson:"type" json:"type"` // ONE_TIME or RECURRING
	DayOfWeek   int           `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // 0=Sunday, RECURRING only
	StartMinute int           `bson:"startMinute,omitempty" json:"startMinute,omitempty"`
	EndMinute   int           `bson:"endMinute,omitempty" json:"endMinute,omitempty"`
	StartAt     time.Time     `bson:"startAt,omitempty" json:"startAt,omitempty"` // ONE_TIME only
	EndAt       time.Time     `bson:"endAt,omitempty" json:"endAt,omitempty"`    // ONE_TIME only
	Breaks      []BreakWindow `bson:"breaks,omitempty" json:"breaks,omitempty"`
	Priority    string        `bson:"priority" json:"priority"`
	IsActive    bool          `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

// StaffAbsence is an absolute unavailability window. Approved absences
// override availability rules for their span; pending ones are recorded
// but do not block scheduling.
type StaffAbsence struct {
	ID        string    `bson:"id" json:"id"`
	StaffID   string    `bson:"staffId" json:"staffId"`
	StartAt   time.Time `bson:"startAt" json:"startAt"`
	EndAt     time.Time `bson:"endAt" json:"endAt"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	Approved  bool      `bson:"approved" json:"approved"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// OpenInterval is a continuous block within a day during which a staff
// member is free, in minutes from midnight.
type OpenInterval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Covers reports whether the interval fully contains [start, end).
func (iv OpenInterval) Covers(start, end int) bool {
	return iv.Start <= start && end <= iv.End
}
