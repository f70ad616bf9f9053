package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/modules/archivemodule/repository"
)

func setupCRUDRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	actors := repository.New(db, repository.Config[database.Actor]{
		Resource: "actor",
		Validate: func(a *database.Actor) []apierrors.FieldError {
			if a.Name == "" {
				return []apierrors.FieldError{{Field: "name", Message: "name is required"}}
			}
			return nil
		},
	})
	planets := repository.New(db, repository.Config[database.Planet]{
		Resource: "planet",
		Validate: func(p *database.Planet) []apierrors.FieldError {
			if p.Name == "" {
				return []apierrors.FieldError{{Field: "name", Message: "name is required"}}
			}
			return nil
		},
	})

	router := gin.New()
	group := router.Group("/api")
	RegisterCRUD(group, "actors", actors)
	RegisterCRUD(group, "planets", planets)
	return router, db
}

func perform(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCRUDLifecycle(t *testing.T) {
	router, _ := setupCRUDRouter(t)

	// Create
	w := perform(router, http.MethodPost, "/api/actors", gin.H{"name": "Tom Baker"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := envelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Tom Baker", created["name"])
	assert.Equal(t, float64(1), created["id"])

	// Read back
	w = perform(router, http.MethodGet, "/api/actors/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tom Baker", envelope(t, w)["data"].(map[string]interface{})["name"])

	// List
	w = perform(router, http.MethodGet, "/api/actors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, envelope(t, w)["data"].([]interface{}), 1)

	// Partial update
	w = perform(router, http.MethodPut, "/api/actors/1", gin.H{"name": "Peter Capaldi"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Peter Capaldi", envelope(t, w)["data"].(map[string]interface{})["name"])

	// Delete, then the row is gone
	w = perform(router, http.MethodDelete, "/api/actors/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = perform(router, http.MethodGet, "/api/actors/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", envelope(t, w)["code"])
}

func TestCreateValidationFailure(t *testing.T) {
	router, db := setupCRUDRouter(t)

	w := perform(router, http.MethodPost, "/api/actors", gin.H{"name": ""})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := envelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	fieldErrors := body["errors"].([]interface{})
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "name", fieldErrors[0].(map[string]interface{})["field"])

	// Nothing was persisted
	var count int64
	require.NoError(t, db.Model(&database.Actor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateMalformedBody(t *testing.T) {
	router, _ := setupCRUDRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/actors", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", envelope(t, w)["code"])
}

func TestCreateDuplicateUniqueValue(t *testing.T) {
	router, _ := setupCRUDRouter(t)

	w := perform(router, http.MethodPost, "/api/planets", gin.H{"name": "Gallifrey"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, http.MethodPost, "/api/planets", gin.H{"name": "Gallifrey"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", envelope(t, w)["code"])
}

func TestUpdateUnknownID(t *testing.T) {
	router, _ := setupCRUDRouter(t)

	w := perform(router, http.MethodPut, "/api/actors/99", gin.H{"name": "Nobody"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", envelope(t, w)["code"])
}

func TestRejectsMalformedIDs(t *testing.T) {
	router, _ := setupCRUDRouter(t)

	for _, raw := range []string{"abc", "0", "-1", "1.5"} {
		w := perform(router, http.MethodGet, "/api/actors/"+raw, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, "id %q", raw)
		assert.Equal(t, "BAD_PARAMETER", envelope(t, w)["code"])
	}

	w := perform(router, http.MethodDelete, "/api/actors/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
