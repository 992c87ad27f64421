package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-queue-backend/internal/queue"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine *queue.Engine
}

// NewHandler creates a new API handler.
func NewHandler(engine *queue.Engine) *Handler {
	return &Handler{engine: engine}
}

// abortWithError maps engine errors onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queue.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
	case errors.Is(err, queue.ErrInvalidDepartment):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid department"})
	case errors.Is(err, queue.ErrAlreadyTerminal):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Patient is not in queue"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
