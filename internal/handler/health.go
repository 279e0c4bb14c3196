package handler

import (
	"context"
	"net/http"
	"time"

	"file-insight/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db       *gorm.DB
	analysis *service.AnalysisService
}

func NewHealthHandler(db *gorm.DB, analysis *service.AnalysisService) *HealthHandler {
	return &HealthHandler{db: db, analysis: analysis}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /ready  database reachable and gateway key present
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{"database": "ok", "gateway": "ok"}
	ready := true

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = err.Error()
			ready = false
		}
	}
	if err := h.analysis.Ready(); err != nil {
		checks["gateway"] = err.Error()
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": ready, "checks": checks})
}
