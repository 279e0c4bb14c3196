package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Headers the browser client sends to the process-file function.
const (
	FunctionAllowOrigin  = "*"
	FunctionAllowHeaders = "authorization, x-client-info, apikey, content-type"
	FunctionAllowMethods = "POST, OPTIONS"
)

// FunctionCORS sets the function's fixed CORS headers on every response and
// answers OPTIONS itself with an empty 200, whatever else the request holds.
func FunctionCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", FunctionAllowOrigin)
		h.Set("Access-Control-Allow-Headers", FunctionAllowHeaders)
		h.Set("Access-Control-Allow-Methods", FunctionAllowMethods)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// APICORS is the policy for the JSON API used by the single-page app.
func APICORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Client-Info", "Apikey", RequestIDHeader},
		ExposeHeaders:   []string{RequestIDHeader, RenewHeader},
		MaxAge:          12 * time.Hour,
	})
}
