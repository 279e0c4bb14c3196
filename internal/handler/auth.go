package handler

import (
	"net/http"
	"time"

	"file-insight/internal/logger"
	"file-insight/internal/middleware"
	"file-insight/internal/model"
	"file-insight/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
	ttl    time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, ttl: ttl}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("signup.ok", "uid", u.ID, "email", u.Email)
	h.respondWithToken(c, http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		writeError(c, err)
		return
	}
	logger.Info("login.ok", "uid", u.ID, "email", u.Email)
	h.respondWithToken(c, http.StatusOK, u)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.auth.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, u *model.User) {
	token, err := middleware.IssueToken(h.secret, u, h.ttl)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, model.LoginResponse{Token: token, User: *u})
}
