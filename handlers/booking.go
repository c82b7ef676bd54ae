package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewly/models"
	"crewly/services/booking"
	"crewly/utils"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Lifecycle booking.Lifecycle
}

func NewBookingHandler(lc booking.Lifecycle) *BookingHandler {
	return &BookingHandler{Lifecycle: lc}
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid booking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	created, err := h.Lifecycle.Create(c.Request.Context(), &req)
	if err != nil {
		utils.DomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking ID in path"})
		return
	}

	b, err := h.Lifecycle.Get(c.Request.Context(), bookingID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	customerID := c.Query("customerId")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing customerId query parameter"})
		return
	}

	list, err := h.Lifecycle.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ListStaffBookingsHandler returns a staff member's bookings for a date.
func (h *BookingHandler) ListStaffBookingsHandler(c *gin.Context) {
	staffID := c.Param("staffID")
	date := c.Query("date")
	if staffID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing staff ID or date"})
		return
	}

	list, err := h.Lifecycle.ListByStaff(c.Request.Context(), staffID, date)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ConfirmBookingHandler assigns staff and confirms in one step.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking ID in path"})
		return
	}

	var req models.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	confirmed, err := h.Lifecycle.Confirm(c.Request.Context(), bookingID, req.StaffID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": confirmed})
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking ID in path"})
		return
	}

	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	cancelled, err := h.Lifecycle.Cancel(c.Request.Context(), bookingID, req.Reason)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": cancelled})
}
