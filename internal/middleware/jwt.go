package middleware

import (
	"net/http"
	"strings"
	"time"

	"file-insight/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"

	// RenewHeader carries a fresh token when the presented one is close to expiry.
	RenewHeader = "X-New-Token"
)

func IssueToken(secret []byte, u *model.User, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   u.ID,
		"email": u.Email,
		"exp":   time.Now().Add(ttl).Unix(),
	}).SignedString(secret)
}

func JWTAuth(secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		uid, ok := claims["uid"].(float64)
		email, _ := claims["email"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserID, int64(uid))
		c.Set(ctxUserEmail, email)

		// renew when less than a day is left
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				if fresh, err := IssueToken(secret, &model.User{ID: int64(uid), Email: email}, ttl); err == nil {
					c.Header(RenewHeader, fresh)
				}
			}
		}

		c.Next()
	}
}

func UserID(c *gin.Context) int64 { return c.GetInt64(ctxUserID) }

func UserEmail(c *gin.Context) string { return c.GetString(ctxUserEmail) }
