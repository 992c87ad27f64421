package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type patientActionRequest struct {
	PatientID int64 `json:"patient_id" binding:"required"`
}

// LeaveQueue handles the POST /api/leave_queue request: a patient's
// self-service cancellation.
func (h *Handler) LeaveQueue(c *gin.Context) {
	var req patientActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Patient ID required"})
		return
	}

	if err := h.engine.LeaveQueue(c.Request.Context(), req.PatientID, time.Now().UTC()); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkServed handles the POST /api/mark_served request: the staff-side
// transition when a patient's turn completes.
func (h *Handler) MarkServed(c *gin.Context) {
	var req patientActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Patient ID required"})
		return
	}

	if err := h.engine.MarkServed(c.Request.Context(), req.PatientID, time.Now().UTC()); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
