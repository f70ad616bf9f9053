// Package databasemodule owns the shared schema: it migrates the sixteen
// entity tables and provisions the reporting views the query module reads.
package databasemodule

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
	"github.com/whoniverse/archive/internal/logger"
	"github.com/whoniverse/archive/internal/modules/modulemanager"
)

func init() {
	Register()
}

const (
	ModuleID   = "system.database"
	ModuleName = "Database Manager"
)

// Module implements schema and view management
type Module struct {
	db *gorm.DB
}

// Register registers the database module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

func (m *Module) ID() string   { return ModuleID }
func (m *Module) Name() string { return ModuleName }
func (m *Module) Core() bool   { return true }

// Migrate creates the entity tables
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("Migrating archive schema")
	return db.AutoMigrate(database.AllModels()...)
}

// Init stores the database handle
func (m *Module) Init(db *gorm.DB) error {
	m.db = db
	return nil
}

// RegisterRoutes registers admin endpoints
func (m *Module) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/api/admin")
	{
		admin.POST("/provision", m.handleProvision)
		admin.GET("/modules", m.handleListModules)
	}
}

// handleProvision creates the reporting views, replacing stale definitions
func (m *Module) handleProvision(c *gin.Context) {
	if err := Provision(m.db); err != nil {
		apierrors.NewDatabaseError("provision views", err).Respond(c)
		return
	}
	apierrors.Success(c, http.StatusOK, gin.H{
		"provisioned": []string{ViewDoctorEpisodeSummary, ViewEnemyAppearanceSummary},
	})
}

// handleListModules reports the registered modules
func (m *Module) handleListModules(c *gin.Context) {
	type moduleInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Core bool   `json:"core"`
	}
	var out []moduleInfo
	for _, mod := range modulemanager.ListModules() {
		out = append(out, moduleInfo{ID: mod.ID(), Name: mod.Name(), Core: mod.Core()})
	}
	apierrors.Success(c, http.StatusOK, out)
}
