package server

import (
	"net/http"
	"time"

	"gohan-planner/internal/auth"
	"gohan-planner/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id and logs its outcome.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		c.Next()

		kv := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request failed", kv...)
		case c.Request.URL.Path == "/api/health":
			log.Debug("request", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}

// pageGate redirects page requests without a session to the login form.
func pageGate(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(auth.CookieName)
		decision, location := gate.Check(c.Request.URL.Path, cookie)
		if decision == auth.Redirect {
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireSession guards API routes, which bypass the page gate.
func requireSession(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(auth.CookieName)
		if !gate.Allowed(cookie) {
			respondError(c, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
