package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hospital-queue-backend/internal/model"
)

// patientStatusResponse is the polling payload for a single patient.
// Position, estimate and crowd level are present only while waiting.
type patientStatusResponse struct {
	PatientID            int64  `json:"patient_id"`
	Name                 string `json:"name"`
	DepartmentID         int64  `json:"department_id"`
	Status               string `json:"status"`
	Position             *int   `json:"position,omitempty"`
	EstimatedWaitMinutes *int   `json:"estimated_wait_minutes,omitempty"`
	CrowdLevel           string `json:"crowd_level,omitempty"`
	CrowdColor           string `json:"crowd_color,omitempty"`
}

// PatientStatus handles the GET /api/patients/{patient_id} request.
func (h *Handler) PatientStatus(c *gin.Context) {
	patientID, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	view, err := h.engine.StatusOf(c.Request.Context(), patientID, time.Now().UTC())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := patientStatusResponse{
		PatientID:    view.PatientID,
		Name:         view.Name,
		DepartmentID: view.DepartmentID,
		Status:       string(view.Status),
	}
	if view.Status == model.StatusWaiting {
		resp.Position = &view.Position
		resp.EstimatedWaitMinutes = &view.EstimatedWaitMinutes
		resp.CrowdLevel = string(view.CrowdLevel)
		resp.CrowdColor = view.CrowdLevel.Color()
	}

	c.JSON(http.StatusOK, resp)
}
