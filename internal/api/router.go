package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hospital-queue-backend/config"
	"hospital-queue-backend/internal/mw"
	"hospital-queue-backend/internal/queue"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, engine *queue.Engine) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(engine)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// The department registry is immutable configuration, so its listing
	// is the one response safe to cache.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// GET /api/departments
		api.GET("/departments", caching, handler.ListDepartments)

		// GET /api/department_status
		api.GET("/department_status", handler.DepartmentStatus)

		// GET /api/hospital_overview
		api.GET("/hospital_overview", handler.HospitalOverview)

		// POST /api/register
		api.POST("/register", handler.Register)

		// GET /api/patients/{patient_id}
		api.GET("/patients/:patient_id", handler.PatientStatus)

		// POST /api/leave_queue, POST /api/mark_served
		api.POST("/leave_queue", handler.LeaveQueue)
		api.POST("/mark_served", handler.MarkServed)
	}

	return r
}
