package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atlas/internal/pkg/response"
)

// Logger writes one line per request and converts panics into a 500
// instead of tearing the connection down.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v method=%s path=%s", r, c.Request.Method, c.Request.URL.Path)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
				c.Abort()
			}
		}()

		c.Next()

		log.Printf("method=%s path=%s status=%d duration=%s request_id=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.GetString("request_id"),
		)
	}
}
