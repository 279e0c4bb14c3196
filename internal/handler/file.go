package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"file-insight/internal/middleware"
	"file-insight/internal/model"
	"file-insight/internal/service"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	files    *service.FileService
	maxBytes int64
}

func NewFileHandler(files *service.FileService, maxBytes int64) *FileHandler {
	return &FileHandler{files: files, maxBytes: maxBytes}
}

// POST /api/files  multipart field "file"
func (h *FileHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		// room for the multipart envelope around the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(c, service.ErrFileTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "please upload a file"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		writeError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer src.Close()

	f, err := h.files.Upload(c.Request.Context(), middleware.UserID(c), fh.Filename, fh.Header.Get("Content-Type"), fh.Size, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// GET /api/files
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.files.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if files == nil {
		files = []model.File{}
	}
	c.JSON(http.StatusOK, files)
}

// GET /api/files/:id/content
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	f, rc, err := h.files.Open(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.Filename})
	c.DataFromReader(http.StatusOK, f.FileSize, f.FileType, rc, map[string]string{
		"Content-Disposition": disposition,
	})
}

// DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.files.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
