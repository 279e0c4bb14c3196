package handler

import (
	"net/http"
	"time"

	"file-insight/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything NewRouter mounts. A nil group leaves its
// routes out.
type Handlers struct {
	Process *ProcessHandler
	Auth    *AuthHandler
	File    *FileHandler
	Query   *QueryHandler
	Health  *HealthHandler
}

type RouterConfig struct {
	JWTSecret []byte
	TokenTTL  time.Duration
}

func NewRouter(h Handlers, rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
		r.GET("/ready", h.Health.Ready)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.Process != nil {
		fn := r.Group("/functions/v1", middleware.FunctionCORS())
		fn.OPTIONS("/process-file", h.Process.Preflight)
		fn.POST("/process-file", h.Process.ProcessFile)
	}

	api := r.Group("/api", middleware.APICORS())
	if h.Auth != nil {
		api.POST("/auth/signup", h.Auth.Signup)
		api.POST("/auth/login", h.Auth.Login)
	}

	authed := api.Group("", middleware.JWTAuth(rc.JWTSecret, rc.TokenTTL))
	if h.Auth != nil {
		authed.GET("/auth/me", h.Auth.Me)
	}
	if h.File != nil {
		authed.POST("/files", h.File.Upload)
		authed.GET("/files", h.File.List)
		authed.GET("/files/:id/content", h.File.Download)
		authed.DELETE("/files/:id", h.File.Delete)
	}
	if h.Query != nil {
		authed.POST("/queries", h.Query.Ask)
		authed.GET("/queries", h.Query.List)
		authed.DELETE("/queries/:id", h.Query.Delete)
		authed.GET("/dashboard/charts", h.Query.Charts)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
