package handler

import (
	"errors"
	"net/http"

	"file-insight/internal/logger"
	"file-insight/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgRateLimited     = "Rate limit exceeded. Please try again later."
	msgPaymentRequired = "Payment required. Please add credits to continue."
	msgGatewayTimeout  = "AI gateway timed out. Please try again later."
)

// statusFor maps service errors to the HTTP status and message sent back in
// the {"error": ...} envelope.
func statusFor(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, service.ErrPaymentRequired):
		return http.StatusPaymentRequired, msgPaymentRequired
	case errors.Is(err, service.ErrGatewayTimeout):
		return http.StatusGatewayTimeout, msgGatewayTimeout
	case errors.Is(err, service.ErrMalformedRequest), errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrBadCredential):
		return http.StatusUnauthorized, err.Error()
	case service.IsNotFound(err):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrFileTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, service.ErrFileTooLarge.Error()
	case errors.Is(err, service.ErrFileType):
		return http.StatusUnsupportedMediaType, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.FullPath(), "status", status, "err", err)
	} else {
		log.Warn("request rejected", "path", c.FullPath(), "status", status, "err", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
