// File: crewly/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Slot endpoints
	GenerateSlotsHandler      gin.HandlerFunc
	GetSlotHandler            gin.HandlerFunc
	ListSlotsHandler          gin.HandlerFunc
	ListAvailableSlotsHandler gin.HandlerFunc
	BlockSlotHandler          gin.HandlerFunc
	UnblockSlotHandler        gin.HandlerFunc
	UpdateSlotCapacityHandler gin.HandlerFunc
	DeleteSlotHandler         gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler     gin.HandlerFunc
	GetBookingHandler        gin.HandlerFunc
	ListBookingsHandler      gin.HandlerFunc
	ListStaffBookingsHandler gin.HandlerFunc
	ConfirmBookingHandler    gin.HandlerFunc
	CancelBookingHandler     gin.HandlerFunc

	// Job card endpoints
	CreateJobCardHandler       gin.HandlerFunc
	GetJobCardHandler          gin.HandlerFunc
	GetJobCardByBookingHandler gin.HandlerFunc
	AssignJobStaffHandler      gin.HandlerFunc
	StartJobHandler            gin.HandlerFunc
	AddStepHandler             gin.HandlerFunc
	RemoveStepHandler          gin.HandlerFunc
	CompleteStepHandler        gin.HandlerFunc
	CompleteJobHandler         gin.HandlerFunc
	CancelJobHandler           gin.HandlerFunc

	// Availability endpoints
	CreateRuleHandler     gin.HandlerFunc
	DeactivateRuleHandler gin.HandlerFunc
	CreateAbsenceHandler  gin.HandlerFunc
	DeleteAbsenceHandler  gin.HandlerFunc
	StaffScheduleHandler  gin.HandlerFunc
}
