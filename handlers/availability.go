package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewly/models"
	"crewly/services/availability"
	"crewly/utils"
)

// AvailabilityHandler exposes rule and absence management plus the
// resolved day schedule for a staff member.
type AvailabilityHandler struct {
	Service availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

func (h *AvailabilityHandler) CreateRuleHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid availability rule request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	rule, err := h.Service.CreateRule(c.Request.Context(), &req)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

func (h *AvailabilityHandler) DeactivateRuleHandler(c *gin.Context) {
	ruleID := c.Param("ruleID")
	if ruleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing rule ID in path"})
		return
	}

	if err := h.Service.DeactivateRule(c.Request.Context(), ruleID); err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rule deactivated"})
}

func (h *AvailabilityHandler) CreateAbsenceHandler(c *gin.Context) {
	var req models.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	absence, err := h.Service.CreateAbsence(c.Request.Context(), &req)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"absence": absence})
}

func (h *AvailabilityHandler) DeleteAbsenceHandler(c *gin.Context) {
	absenceID := c.Param("absenceID")
	if absenceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing absence ID in path"})
		return
	}

	if err := h.Service.DeleteAbsence(c.Request.Context(), absenceID); err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Absence deleted"})
}

// StaffScheduleHandler returns the resolved open intervals for a staff
// member on a given date.
func (h *AvailabilityHandler) StaffScheduleHandler(c *gin.Context) {
	staffID := c.Param("staffID")
	date := c.Query("date")
	if staffID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing staff ID or date"})
		return
	}

	open, err := h.Service.Resolve(c.Request.Context(), staffID, date)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"staffId":   staffID,
		"date":      date,
		"intervals": open,
	})
}
