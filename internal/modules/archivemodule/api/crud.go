// Package api wires the entity repositories to their HTTP CRUD surface.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/modules/archivemodule/repository"
)

// RegisterCRUD registers the standard five CRUD routes for one entity type
// under /api/<path>.
func RegisterCRUD[T any](group *gin.RouterGroup, path string, repo *repository.Repository[T]) {
	res := group.Group("/" + path)
	{
		res.GET("", handleList(repo))
		res.GET("/:id", handleGet(repo))
		res.POST("", handleCreate(repo))
		res.PUT("/:id", handleUpdate(repo))
		res.DELETE("/:id", handleDelete(repo))
	}
}

func handleList[T any](repo *repository.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := repo.GetAll(c.Request.Context())
		if err != nil {
			apierrors.HandleError(c, err)
			return
		}
		apierrors.Success(c, http.StatusOK, rows)
	}
}

func handleGet[T any](repo *repository.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		row, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			apierrors.HandleError(c, err)
			return
		}
		apierrors.Success(c, http.StatusOK, row)
	}
}

func handleCreate[T any](repo *repository.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entity T
		if err := c.ShouldBindJSON(&entity); err != nil {
			apierrors.NewValidationError("malformed request body: " + err.Error()).Respond(c)
			return
		}
		created, err := repo.Create(c.Request.Context(), &entity)
		if err != nil {
			apierrors.HandleError(c, err)
			return
		}
		apierrors.Success(c, http.StatusCreated, created)
	}
}

func handleUpdate[T any](repo *repository.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			apierrors.NewValidationError("malformed request body: " + err.Error()).Respond(c)
			return
		}
		updated, err := repo.Update(c.Request.Context(), id, fields)
		if err != nil {
			apierrors.HandleError(c, err)
			return
		}
		apierrors.Success(c, http.StatusOK, updated)
	}
}

func handleDelete[T any](repo *repository.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := repo.Delete(c.Request.Context(), id); err != nil {
			apierrors.HandleError(c, err)
			return
		}
		apierrors.NoContent(c)
	}
}

// parseID reads the :id path parameter, rejecting anything that is not a
// positive integer. On failure the 400 response is already written.
func parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apierrors.NewBadParameterError("id", "id must be a positive integer").Respond(c)
		return 0, false
	}
	return uint(id), true
}
