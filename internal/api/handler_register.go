package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	DepartmentID int64  `json:"department_id" binding:"required"`
}

type registerResponse struct {
	PatientID            int64  `json:"patient_id"`
	Position             int    `json:"position"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	CrowdLevel           string `json:"crowd_level"`
	CrowdColor           string `json:"crowd_color"`
}

// Register handles the POST /api/register request.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Name and department are required"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Name and department are required"})
		return
	}

	reg, err := h.engine.Register(c.Request.Context(), req.Name, req.DepartmentID, time.Now().UTC())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, registerResponse{
		PatientID:            reg.Patient.ID,
		Position:             reg.Position,
		EstimatedWaitMinutes: reg.Patient.EstimatedWaitMinutes,
		CrowdLevel:           string(reg.CrowdLevel),
		CrowdColor:           reg.CrowdLevel.Color(),
	})
}
