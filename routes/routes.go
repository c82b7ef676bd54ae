package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"crewly/handlers"
	"crewly/utils"
)

// RegisterSlotRoutes registers time slot endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.POST("/generate", hb.GenerateSlotsHandler)
		api.GET("", hb.ListSlotsHandler)
		api.GET("/available", hb.ListAvailableSlotsHandler)
		api.GET("/:slotID", hb.GetSlotHandler)
		api.PUT("/:slotID/block", hb.BlockSlotHandler)
		api.PUT("/:slotID/unblock", hb.UnblockSlotHandler)
		api.PUT("/:slotID/capacity", hb.UpdateSlotCapacityHandler)
		api.DELETE("/:slotID", hb.DeleteSlotHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:bookingID", hb.GetBookingHandler)
		api.PUT("/:bookingID/confirm", hb.ConfirmBookingHandler)
		api.PUT("/:bookingID/cancel", hb.CancelBookingHandler)
		api.POST("/:bookingID/jobcard", hb.CreateJobCardHandler)
		api.GET("/:bookingID/jobcard", hb.GetJobCardByBookingHandler)
	}

	staff := r.Group("/api/staff")
	{
		staff.GET("/:staffID/bookings", hb.ListStaffBookingsHandler)
	}
}

// RegisterJobCardRoutes registers the job card workflow endpoints.
func RegisterJobCardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/jobcards")
	{
		api.GET("/:cardID", hb.GetJobCardHandler)
		api.PUT("/:cardID/assign", hb.AssignJobStaffHandler)
		api.PUT("/:cardID/start", hb.StartJobHandler)
		api.POST("/:cardID/steps", hb.AddStepHandler)
		api.DELETE("/:cardID/steps/:index", hb.RemoveStepHandler)
		api.PUT("/:cardID/steps/:index/complete", hb.CompleteStepHandler)
		api.PUT("/:cardID/complete", hb.CompleteJobHandler)
		api.PUT("/:cardID/cancel", hb.CancelJobHandler)
	}
}

// RegisterAvailabilityRoutes registers rule, absence and schedule
// endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.POST("/rules", hb.CreateRuleHandler)
		api.DELETE("/rules/:ruleID", hb.DeactivateRuleHandler)
		api.POST("/absences", hb.CreateAbsenceHandler)
		api.DELETE("/absences/:absenceID", hb.DeleteAbsenceHandler)
		api.GET("/staff/:staffID", hb.StaffScheduleHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Hi, I'm Crewly",
			"services": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterJobCardRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterHealthRoute(r)
}
