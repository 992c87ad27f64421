package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// departmentResponse is a single entry of the registry listing.
type departmentResponse struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	AverageServiceMinutes int    `json:"average_service_minutes"`
}

// ListDepartments handles the GET /api/departments request. The payload
// is static configuration and sits behind the cache middleware.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments := h.engine.Departments()
	responses := make([]departmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, departmentResponse{
			ID:                    d.ID,
			Name:                  d.Name,
			Description:           d.Description,
			AverageServiceMinutes: d.AverageServiceMinutes,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// departmentStatusResponse is the dashboard row for one department.
type departmentStatusResponse struct {
	DepartmentID          int64  `json:"department_id"`
	Name                  string `json:"name"`
	AverageServiceMinutes int    `json:"average_service_minutes"`
	WaitingCount          int64  `json:"waiting_count"`
	CrowdLevel            string `json:"crowd_level"`
	CrowdColor            string `json:"crowd_color"`
}

// DepartmentStatus handles the GET /api/department_status request. One
// snapshot pass covers all departments so the dashboard sees a
// consistent picture.
func (h *Handler) DepartmentStatus(c *gin.Context) {
	snapshot, err := h.engine.HospitalSnapshot(c.Request.Context(), time.Now().UTC())
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]departmentStatusResponse, 0, len(snapshot.Departments))
	for _, d := range snapshot.Departments {
		responses = append(responses, departmentStatusResponse{
			DepartmentID:          d.DepartmentID,
			Name:                  d.Name,
			AverageServiceMinutes: d.AverageServiceMinutes,
			WaitingCount:          d.WaitingCount,
			CrowdLevel:            string(d.CrowdLevel),
			CrowdColor:            d.CrowdLevel.Color(),
		})
	}
	c.JSON(http.StatusOK, responses)
}
