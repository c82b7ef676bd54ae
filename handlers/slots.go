package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewly/models"
	"crewly/services/slots"
	"crewly/utils"
)

// SlotHandler exposes slot generation and administration endpoints.
type SlotHandler struct {
	Service slots.Service
}

func NewSlotHandler(svc slots.Service) *SlotHandler {
	return &SlotHandler{Service: svc}
}

func (h *SlotHandler) GenerateSlotsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid slot generation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	created, err := h.Service.Generate(c.Request.Context(), &req)
	if err != nil {
		utils.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Slot generation complete",
		"created": created,
	})
}

func (h *SlotHandler) GetSlotHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	slot, err := h.Service.Get(c.Request.Context(), slotID)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (h *SlotHandler) ListSlotsHandler(c *gin.Context) {
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing serviceId or date query parameter"})
		return
	}

	list, err := h.Service.ListByServiceAndDate(c.Request.Context(), serviceID, date)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": list})
}

func (h *SlotHandler) ListAvailableSlotsHandler(c *gin.Context) {
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing serviceId or date query parameter"})
		return
	}

	list, err := h.Service.ListAvailable(c.Request.Context(), serviceID, date)
	if err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": list})
}

func (h *SlotHandler) BlockSlotHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	var req models.BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	if err := h.Service.Block(c.Request.Context(), slotID, req.Reason, req.Force); err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot blocked"})
}

func (h *SlotHandler) UnblockSlotHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	if err := h.Service.Unblock(c.Request.Context(), slotID); err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot unblocked"})
}

func (h *SlotHandler) UpdateSlotCapacityHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	var req models.UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	if err := h.Service.UpdateCapacity(c.Request.Context(), slotID, req.MaxCapacity); err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot capacity updated"})
}

func (h *SlotHandler) DeleteSlotHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), slotID); err != nil {
		utils.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}
