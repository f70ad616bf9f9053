// Package api exposes the aggregation layer's HTTP surface under
// /api/queries.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/modules/querymodule/service"
)

// Handler dispatches query routes to the service layer
type Handler struct {
	service *service.Service
}

// NewHandler builds a query handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes registers the query route family
func RegisterRoutes(router *gin.Engine, h *Handler) {
	queries := router.Group("/api/queries")
	{
		queries.GET("/join/doctor/:id", h.GetDoctorFullDetails)
		queries.GET("/join/episode/:id", h.GetEpisodeFullDetails)
		queries.GET("/view/doctor-summary", h.GetDoctorSummary)
		queries.GET("/view/enemy-summary", h.GetEnemySummary)
		queries.GET("/procedure/enemies/:threatLevel", h.GetEnemiesByThreatLevel)
		queries.GET("/procedure/doctor/:incarnation", h.GetEpisodesForDoctor)
		queries.PUT("/update/enemy/:id/threat-level", h.UpdateEnemyThreatLevel)
	}
}

// GetDoctorFullDetails handles GET /api/queries/join/doctor/:id
func (h *Handler) GetDoctorFullDetails(c *gin.Context) {
	id, ok := parsePositiveParam(c, "id")
	if !ok {
		return
	}
	details, err := h.service.DoctorFullDetails(c.Request.Context(), uint(id))
	if err != nil {
		apierrors.HandleError(c, err)
		return
	}
	apierrors.Success(c, http.StatusOK, details)
}

// GetEpisodeFullDetails handles GET /api/queries/join/episode/:id
func (h *Handler) GetEpisodeFullDetails(c *gin.Context) {
	id, ok := parsePositiveParam(c, "id")
	if !ok {
		return
	}
	details, err := h.service.EpisodeFullDetails(c.Request.Context(), uint(id))
	if err != nil {
		apierrors.HandleError(c, err)
		return
	}
	apierrors.Success(c, http.StatusOK, details)
}

// GetDoctorSummary handles GET /api/queries/view/doctor-summary
func (h *Handler) GetDoctorSummary(c *gin.Context) {
	rows, err := h.service.DoctorEpisodeSummary(c.Request.Context())
	if err != nil {
		apierrors.HandleError(c, err)
		return
	}
	apierrors.Success(c, http.StatusOK, rows)
}

// GetEnemySummary handles GET /api/queries/view/enemy-summary
func (h *Handler) GetEnemySummary(c *gin.Context) {
	rows, err := h.service.EnemyAppearanceSummary(c.Request.Context())
	if err != nil {
		apierrors.HandleError(c, err)
		return
	}
	apierrors.Success(c, http.StatusOK, rows)
}

// GetEnemiesByThreatLevel handles GET /api/queries/procedure/enemies/:threatLevel.
// The minimum level must lie inside the valid 1..10 threat range.
func (h *Handler) GetEnemiesByThreatLevel(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("threatLevel"))
	if err != nil || level < 1 || level > 10 {
		apierrors.NewBadParameterError("threatLevel",
			"threatLevel must be an integer between 1 and 10").Respond(c)
		return
	}
	rows, svcErr := h.service.EnemiesByThreatLevel(c.Request.Context(), level)
	if svcErr != nil {
		apierrors.HandleError(c, svcErr)
		return
	}
	apierrors.Success(c, http.StatusOK, rows)
}

// GetEpisodesForDoctor handles GET /api/queries/procedure/doctor/:incarnation
func (h *Handler) GetEpisodesForDoctor(c *gin.Context) {
	incarnation, err := strconv.Atoi(c.Param("incarnation"))
	if err != nil || incarnation < 1 {
		apierrors.NewBadParameterError("incarnation",
			"incarnation must be a positive integer").Respond(c)
		return
	}
	rows, svcErr := h.service.EpisodesForDoctor(c.Request.Context(), incarnation)
	if svcErr != nil {
		apierrors.HandleError(c, svcErr)
		return
	}
	apierrors.Success(c, http.StatusOK, rows)
}

type threatLevelRequest struct {
	ThreatLevel *int `json:"threat_level"`
}

// UpdateEnemyThreatLevel handles PUT /api/queries/update/enemy/:id/threat-level
func (h *Handler) UpdateEnemyThreatLevel(c *gin.Context) {
	id, ok := parsePositiveParam(c, "id")
	if !ok {
		return
	}
	var req threatLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ThreatLevel == nil {
		apierrors.NewBadParameterError("threat_level",
			"body must contain an integer threat_level").Respond(c)
		return
	}
	enemy, err := h.service.UpdateEnemyThreatLevel(c.Request.Context(), uint(id), *req.ThreatLevel)
	if err != nil {
		apierrors.HandleError(c, err)
		return
	}
	apierrors.Success(c, http.StatusOK, enemy)
}

// parsePositiveParam reads a positive integer path parameter, writing the
// 400 response itself on failure.
func parsePositiveParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		apierrors.NewBadParameterError(name, name+" must be a positive integer").Respond(c)
		return 0, false
	}
	return v, true
}
