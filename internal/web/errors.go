package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/bulldoggy/internal/auth"
	"github.com/eleven-am/bulldoggy/internal/reminders"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, reminders.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, reminders.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func detailFor(status int, err error) string {
	if status == http.StatusBadRequest {
		return err.Error()
	}
	return http.StatusText(status)
}

// respondError writes a JSON {"detail": ...} body. Internal errors are
// logged and never echoed to the client.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusUnauthorized {
		s.unauthorized(c)
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"detail": detailFor(status, err)})
}

// pageError is respondError for partials: same status codes, plain text.
func (s *Server) pageError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusUnauthorized {
		c.Redirect(http.StatusFound, "/login?unauthorized=True")
		c.Abort()
		return
	}

	_ = c.Error(err)
	c.String(status, detailFor(status, err))
	c.Abort()
}

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}
