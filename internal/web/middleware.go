package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eleven-am/bulldoggy/internal/auth"
	"github.com/eleven-am/bulldoggy/internal/reminders"
)

const (
	requestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	sessionKey   = "session"
)

// requestLogger tags every request with an id and logs one line when it
// completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", id,
		}
		if session, ok := c.Get(sessionKey); ok {
			fields = append(fields, "username", session.(*auth.Session).Username)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			s.log.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			s.log.Warn("request rejected", fields...)
		default:
			s.log.Info("request", fields...)
		}
	}
}

// requireAPISession accepts the session cookie or HTTP Basic credentials.
func (s *Server) requireAPISession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.resolver.Resolve(c.Request)
		if err != nil {
			s.unauthorized(c)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// requirePageSession accepts the session cookie only and sends everyone else
// to the login page.
func (s *Server) requirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := s.resolver.FromCookie(c.Request)
		if !ok {
			c.Redirect(http.StatusFound, "/login?unauthorized=True")
			c.Abort()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func (s *Server) unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="bulldoggy"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
}

func currentSession(c *gin.Context) *auth.Session {
	return c.MustGet(sessionKey).(*auth.Session)
}

// storage binds the reminder store to the authenticated user.
func (s *Server) storage(c *gin.Context) *reminders.Storage {
	return s.store.For(currentSession(c).Username)
}
