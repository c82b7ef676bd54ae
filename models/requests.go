package models

// GenerateSlotsRequest defines the payload for bulk slot generation.
// Dates use "2006-01-02"; duration is in minutes.
type GenerateSlotsRequest struct {
	ServiceID    string `json:"serviceId" binding:"required"`
	TenantID     string `json:"tenantId"`
	StartDate    string `json:"startDate" binding:"required"`
	EndDate      string `json:"endDate" binding:"required"`
	Duration     int    `json:"duration" binding:"required"`
	MaxCapacity  int    `json:"maxCapacity"`
	DayStart     int    `json:"dayStart"` // minutes from midnight; 0 = business default
	DayEnd       int    `json:"dayEnd"`
}

// CreateBookingRequest defines the payload for creating a booking against
// a reserved time slot.
type CreateBookingRequest struct {
	ServiceID       string `json:"serviceId" binding:"required"`
	TimeSlotID      string `json:"timeSlotId" binding:"required"`
	CustomerID      string `json:"customerId" binding:"required"`
	Notes           string `json:"notes"`
	SpecialRequests string `json:"specialRequests"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// AssignStaffRequest binds a staff member to a booking or job card.
type AssignStaffRequest struct {
	StaffID string `json:"staffId" binding:"required"`
}

// CancelBookingRequest carries an optional cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// BlockSlotRequest manually disables a slot. Force skips the
// active-bookings guard.
type BlockSlotRequest struct {
	Reason string `json:"reason"`
	Force  bool   `json:"force"`
}

// UpdateCapacityRequest changes a slot's maximum capacity.
type UpdateCapacityRequest struct {
	MaxCapacity int `json:"maxCapacity" binding:"required"`
}

// CreateJobCardRequest opens the execution tracker for a confirmed
// booking. Steps may be supplied up front or added later.
type CreateJobCardRequest struct {
	Steps    []string `json:"steps"`
	Deadline string   `json:"deadline"` // RFC3339, optional
	Priority string   `json:"priority"`
}

// AddStepRequest appends or inserts a step on a job card. OrderIndex -1
// appends at the end of the list.
type AddStepRequest struct {
	Name       string `json:"name" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

// CreateRuleRequest defines the payload for a staff availability rule.
type CreateRuleRequest struct {
	StaffID     string        `json:"staffId" binding:"required"`
	Type        string        `json:"type" binding:"required"`
	DayOfWeek   int           `json:"dayOfWeek"`
	StartMinute int           `json:"startMinute"`
	EndMinute   int           `json:"endMinute"`
	StartAt     string        `json:"startAt"` // RFC3339, ONE_TIME only
	EndAt       string        `json:"endAt"`   // RFC3339, ONE_TIME only
	Breaks      []BreakWindow `json:"breaks"`
	Priority    string        `json:"priority"`
}

// CreateAbsenceRequest defines the payload for a staff absence window.
type CreateAbsenceRequest struct {
	StaffID  string `json:"staffId" binding:"required"`
	StartAt  string `json:"startAt" binding:"required"` // RFC3339
	EndAt    string `json:"endAt" binding:"required"`   // RFC3339
	Reason   string `json:"reason"`
	Approved *bool  `json:"approved"` // nil defaults to approved
}
