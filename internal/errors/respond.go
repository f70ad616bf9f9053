package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whoniverse/archive/internal/logger"
)

// Success sends data wrapped in the standard response envelope
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status":    "success",
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"path":      c.Request.URL.Path,
	})
}

// NoContent sends an empty 204 response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Respond sends the error as a standardized JSON envelope
func (e *ArchiveError) Respond(c *gin.Context) {
	status := e.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := gin.H{
		"status":     "error",
		"message":    e.Message,
		"code":       e.Code,
		"statusCode": status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
	}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	if len(e.Context) > 0 {
		body["details"] = e.Context
	}
	// Underlying causes are only exposed outside release mode
	if e.Cause != nil && gin.Mode() != gin.ReleaseMode {
		body["cause"] = e.Cause.Error()
	}

	logger.Error("HTTP error response",
		"status", status,
		"code", e.Code,
		"message", e.Message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method)

	c.JSON(status, body)
}

// HandleError maps any error onto the envelope, preserving ArchiveError
// semantics and falling back to a generic internal error otherwise.
func HandleError(c *gin.Context, err error) {
	var ae *ArchiveError
	if errors.As(err, &ae) {
		ae.Respond(c)
		return
	}
	NewInternalError("unexpected error", err).Respond(c)
}
