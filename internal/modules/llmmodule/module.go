// Package llmmodule exposes the natural-language query adapter as a module.
package llmmodule

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/config"
	"github.com/whoniverse/archive/internal/logger"
	"github.com/whoniverse/archive/internal/modules/llmmodule/api"
	"github.com/whoniverse/archive/internal/modules/llmmodule/service"
	"github.com/whoniverse/archive/internal/modules/modulemanager"
)

func init() {
	Register()
}

const (
	ModuleID   = "system.llm"
	ModuleName = "Natural-Language Queries"
)

// Module implements the LLM adapter as a module
type Module struct {
	service *service.Service
}

// Register registers the LLM module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

func (m *Module) ID() string   { return ModuleID }
func (m *Module) Name() string { return ModuleName }

// Core returns false; the adapter is optional and refuses cleanly when no
// credential is configured.
func (m *Module) Core() bool { return false }

// Dependencies requires the schema for the sample-data prompt
func (m *Module) Dependencies() []string {
	return []string{"system.database"}
}

// Migrate is a no-op; the adapter owns no tables
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init builds the adapter from the LLM configuration
func (m *Module) Init(db *gorm.DB) error {
	cfg := config.Get().LLM
	m.service = service.NewService(db, cfg)
	if !m.service.Configured() {
		logger.Warn("LLM adapter has no API key; natural-language queries will be refused")
	}
	return nil
}

// RegisterRoutes registers the LLM route group
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}
