// Package api exposes the natural-language query endpoint.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/modules/llmmodule/service"
)

// Handler dispatches LLM routes to the adapter
type Handler struct {
	service *service.Service
}

// NewHandler builds an LLM handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes registers the LLM route group
func RegisterRoutes(router *gin.Engine, h *Handler) {
	llm := router.Group("/api/llm")
	{
		llm.POST("/query", h.Query)
		llm.GET("/status", h.Status)
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

// Query handles POST /api/llm/query
func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		apierrors.NewBadParameterError("query",
			"body must contain a non-empty query string").Respond(c)
		return
	}

	result, err := h.service.Query(c.Request.Context(), req.Query)
	if err != nil {
		apierrors.HandleError(c, err)
		return
	}
	apierrors.Success(c, http.StatusOK, result)
}

// Status handles GET /api/llm/status, reporting whether the adapter has a
// credential without revealing it.
func (h *Handler) Status(c *gin.Context) {
	apierrors.Success(c, http.StatusOK, gin.H{
		"configured": h.service.Configured(),
	})
}
