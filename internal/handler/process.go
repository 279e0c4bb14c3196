package handler

import (
	"fmt"
	"net/http"

	"file-insight/internal/logger"
	"file-insight/internal/model"
	"file-insight/internal/service"

	"github.com/gin-gonic/gin"
)

// ProcessHandler serves the process-file function: one question about one
// file's content, answered by the AI gateway.
type ProcessHandler struct {
	analysis *service.AnalysisService
}

func NewProcessHandler(analysis *service.AnalysisService) *ProcessHandler {
	return &ProcessHandler{analysis: analysis}
}

// Preflight is reached only if FunctionCORS did not already answer.
func (h *ProcessHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *ProcessHandler) ProcessFile(c *gin.Context) {
	if err := h.analysis.Ready(); err != nil {
		writeError(c, err)
		return
	}

	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", service.ErrMalformedRequest, err))
		return
	}
	logger.FromContext(c.Request.Context()).Info("process-file", "file", req.FileName, "query", req.Query)

	resp, err := h.analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
