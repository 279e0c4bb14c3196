package handler

import (
	"fmt"
	"net/http"

	"file-insight/internal/middleware"
	"file-insight/internal/model"
	"file-insight/internal/service"

	"github.com/gin-gonic/gin"
)

type QueryHandler struct {
	history *service.HistoryService
}

func NewQueryHandler(history *service.HistoryService) *QueryHandler {
	return &QueryHandler{history: history}
}

// POST /api/queries  body: {"fileId": 1, "query": "..."}
func (h *QueryHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", service.ErrMalformedRequest, err))
		return
	}
	q, err := h.history.Ask(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GET /api/queries?charts=1
func (h *QueryHandler) List(c *gin.Context) {
	chartsOnly := c.Query("charts") == "1" || c.Query("charts") == "true"
	qs, err := h.history.List(c.Request.Context(), middleware.UserID(c), chartsOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	if qs == nil {
		qs = []model.Query{}
	}
	c.JSON(http.StatusOK, qs)
}

// GET /api/dashboard/charts
func (h *QueryHandler) Charts(c *gin.Context) {
	charts, err := h.history.Charts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts)
}

// DELETE /api/queries/:id
func (h *QueryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.history.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
