package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupActionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	handler := NewHandler(nil)
	r.POST("/api/register", handler.Register)
	r.POST("/api/leave_queue", handler.LeaveQueue)
	r.POST("/api/mark_served", handler.MarkServed)
	r.GET("/api/patients/:patient_id", handler.PatientStatus)
	return r
}

func TestRegisterRequiresBody(t *testing.T) {
	router := setupActionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/register", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Name and department are required"}`, w.Body.String())
}

func TestRegisterRejectsBlankName(t *testing.T) {
	router := setupActionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/register", strings.NewReader(`{"name":"   ","department_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveQueueRequiresPatientID(t *testing.T) {
	router := setupActionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/leave_queue", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Patient ID required"}`, w.Body.String())
}

func TestMarkServedRequiresPatientID(t *testing.T) {
	router := setupActionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/mark_served", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientStatusRejectsBadID(t *testing.T) {
	router := setupActionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/patients/not-a-number", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid patient ID"}`, w.Body.String())
}
