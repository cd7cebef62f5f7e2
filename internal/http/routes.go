package http

import (
	"time"

	"tasktracker/internal/config"
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, tasks *service.TaskService, cfg *config.Config) {
	h := handlers.NewHandler(tasks)
	healthHandler := handlers.NewHealthHandler(tasks, cfg.AppVersion)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	if cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, time.Duration(cfg.APIRateWindow)*time.Second))

	v1.POST("/tasks", h.CreateTask)
	v1.GET("/tasks", h.ListTasks)
	v1.GET("/tasks/stats/summary", h.TaskSummary)
	v1.GET("/tasks/:id", h.GetTask)
	v1.PUT("/tasks/:id", h.UpdateTask)
	v1.DELETE("/tasks/:id", h.DeleteTask)
}
