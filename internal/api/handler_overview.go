package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type hospitalOverviewResponse struct {
	TotalWaiting int64                      `json:"total_waiting"`
	TotalServed  int64                      `json:"total_served"`
	CrowdLevel   string                     `json:"crowd_level"`
	CrowdColor   string                     `json:"crowd_color"`
	Departments  []departmentStatusResponse `json:"departments"`
}

// HospitalOverview handles the GET /api/hospital_overview request.
func (h *Handler) HospitalOverview(c *gin.Context) {
	snapshot, err := h.engine.HospitalSnapshot(c.Request.Context(), time.Now().UTC())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := hospitalOverviewResponse{
		TotalWaiting: snapshot.TotalWaiting,
		TotalServed:  snapshot.TotalServed,
		CrowdLevel:   string(snapshot.CrowdLevel),
		CrowdColor:   snapshot.CrowdLevel.Color(),
		Departments:  make([]departmentStatusResponse, 0, len(snapshot.Departments)),
	}
	for _, d := range snapshot.Departments {
		resp.Departments = append(resp.Departments, departmentStatusResponse{
			DepartmentID:          d.DepartmentID,
			Name:                  d.Name,
			AverageServiceMinutes: d.AverageServiceMinutes,
			WaitingCount:          d.WaitingCount,
			CrowdLevel:            string(d.CrowdLevel),
			CrowdColor:            d.CrowdLevel.Color(),
		})
	}

	c.JSON(http.StatusOK, resp)
}
