package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"service-connect-server/services"
)

// respondError maps a service error onto the HTTP response
func respondError(c *gin.Context, err error) {
	var transition *services.InvalidTransitionError
	var incomplete *services.ProfileIncompleteError

	switch {
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":            "Invalid transition",
			"message":          err.Error(),
			"current_status":   transition.From,
			"requested_status": transition.To,
		})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Profile incomplete",
			"message": err.Error(),
			"missing": incomplete.Missing,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "message": err.Error()})
	case errors.Is(err, services.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": "Already assigned", "message": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid transition", "message": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "message": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "message": err.Error()})
	case errors.Is(err, services.ErrMediaDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unavailable", "message": err.Error()})
	default:
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Something went wrong, please try again",
		})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"message": err.Error(),
	})
}

// paramID reads a positive integer path parameter, answering 400 otherwise
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid " + name,
			"message": name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
