package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewly/models"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// DomainError maps a scheduling domain error to an HTTP response.
// Every domain error is caller-recoverable, so each one gets a 4xx code;
// only unknown errors fall through to 500.
func DomainError(c *gin.Context, err error) {
	var (
		invalidRange   *models.InvalidRangeError
		slotUnavail    *models.SlotUnavailableError
		capBelow       *models.CapacityBelowBookedError
		staffUnavail   *models.StaffUnavailableError
		staffConflict  *models.StaffConflictError
		invalidTrans   *models.InvalidTransitionError
		outOfOrder     *models.OutOfOrderStepError
		stepNotRemoval *models.StepNotRemovableError
	)

	switch {
	case errors.Is(err, models.ErrNotFound):
		JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &invalidRange):
		JSONError(c, http.StatusBadRequest, "invalid range", err.Error())
	case errors.As(err, &slotUnavail):
		JSONError(c, http.StatusConflict, "slot unavailable", err.Error())
	case errors.As(err, &capBelow):
		JSONError(c, http.StatusConflict, "capacity below booked count", err.Error())
	case errors.As(err, &staffUnavail):
		JSONError(c, http.StatusConflict, "staff unavailable", err.Error())
	case errors.As(err, &staffConflict):
		JSONError(c, http.StatusConflict, "staff conflict", err.Error())
	case errors.As(err, &invalidTrans):
		JSONError(c, http.StatusConflict, "invalid transition", err.Error())
	case errors.As(err, &outOfOrder):
		JSONError(c, http.StatusConflict, "step out of order", err.Error())
	case errors.As(err, &stepNotRemoval):
		JSONError(c, http.StatusConflict, "step not removable", err.Error())
	case errors.Is(err, models.ErrVersionConflict):
		JSONError(c, http.StatusConflict, "concurrent update, retry", err.Error())
	default:
		JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
