// Package querymodule exposes the aggregation and query layer as a module.
package querymodule

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/logger"
	"github.com/whoniverse/archive/internal/modules/modulemanager"
	"github.com/whoniverse/archive/internal/modules/querymodule/api"
	"github.com/whoniverse/archive/internal/modules/querymodule/service"
)

func init() {
	Register()
}

const (
	ModuleID   = "system.queries"
	ModuleName = "Aggregation Queries"
)

// Module implements the aggregation/query layer as a module
type Module struct {
	service *service.Service
}

// Register registers the query module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

func (m *Module) ID() string   { return ModuleID }
func (m *Module) Name() string { return ModuleName }
func (m *Module) Core() bool   { return true }

// Dependencies requires the schema before queries can run
func (m *Module) Dependencies() []string {
	return []string{"system.database"}
}

// Migrate is a no-op; views are provisioned by the database module
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init builds the query service
func (m *Module) Init(db *gorm.DB) error {
	logger.Info("Initializing query service")
	m.service = service.NewService(db)
	return nil
}

// RegisterRoutes registers the query route family
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}
