package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowedHeaders = "Content-Type, Authorization"
	corsAllowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
		}

		// preflight termina aqui
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
