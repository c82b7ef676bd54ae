package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewly/models"
	"crewly/services/jobcard"
	"crewly/utils"
)

// JobCardHandler exposes the job card workflow endpoints.
type JobCardHandler struct {
	Workflow jobcard.Workflow
}

func NewJobCardHandler(wf jobcard.Workflow) *JobCardHandler {
	return &JobCardHandler{Workflow: wf}
}

func (h *JobCardHandler) CreateJobCardHandler(c *gin.Context) {
	logger := utils.GetLogger()

	bookingID := c.Param("bookingID")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking ID in path"})
		return
	}

	var req models.CreateJobCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid job card request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	card, err := h.Workflow.Create(c.Request.Context(), bookingID, &req)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"jobCard": card})
}

func (h *JobCardHandler) GetJobCardHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID in path"})
		return
	}

	card, err := h.Workflow.Get(c.Request.Context(), cardID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) GetJobCardByBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking ID in path"})
		return
	}

	card, err := h.Workflow.GetByBooking(c.Request.Context(), bookingID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) AssignJobStaffHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID in path"})
		return
	}

	var req models.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	card, err := h.Workflow.AssignStaff(c.Request.Context(), cardID, req.StaffID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) StartJobHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID in path"})
		return
	}

	card, err := h.Workflow.Start(c.Request.Context(), cardID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) AddStepHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID in path"})
		return
	}

	req := models.AddStepRequest{OrderIndex: -1}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	card, err := h.Workflow.AddStep(c.Request.Context(), cardID, req.Name, req.OrderIndex)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) RemoveStepHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	index, err := strconv.Atoi(c.Param("index"))
	if cardID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID or invalid step index in path"})
		return
	}

	card, err := h.Workflow.RemoveStep(c.Request.Context(), cardID, index)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) CompleteStepHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	index, err := strconv.Atoi(c.Param("index"))
	if cardID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID or invalid step index in path"})
		return
	}

	card, err := h.Workflow.CompleteStep(c.Request.Context(), cardID, index)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) CompleteJobHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID in path"})
		return
	}

	card, err := h.Workflow.Complete(c.Request.Context(), cardID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}

func (h *JobCardHandler) CancelJobHandler(c *gin.Context) {
	cardID := c.Param("cardID")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing card ID in path"})
		return
	}

	card, err := h.Workflow.Cancel(c.Request.Context(), cardID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobCard": card})
}
