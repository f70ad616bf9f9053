// Package modulemanager provides registration and lifecycle management for
// the application's modules. Modules self-register from their package init
// and are migrated, initialized and routed in dependency order.
package modulemanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whoniverse/archive/internal/logger"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                // Unique identifier for the module
	Name() string              // Display name for the module
	Core() bool                // Whether this is a core module
	Migrate(db *gorm.DB) error // Run database migrations
	Init(db *gorm.DB) error    // Initialize the module
}

// RouteRegistrar is an optional interface for modules that register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// DependencyDeclarer is an optional interface for modules that must be
// initialized after others.
type DependencyDeclarer interface {
	Dependencies() []string
}

// Shutdowner is an optional interface for modules with teardown work
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules     map[string]Module
	order       []string
	mu          sync.RWMutex
	initialized bool
}

// Registry is the global module registry
var Registry = &ModuleRegistry{
	modules: make(map[string]Module),
}

// Register adds a module to the registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module registered after initialization", "module", m.ID())
	}
	if _, exists := r.modules[m.ID()]; !exists {
		r.order = append(r.order, m.ID())
	}
	r.modules[m.ID()] = m
	logger.Info("Module registered", "module", m.Name(), "id", m.ID())
}

// LoadAll migrates and initializes all registered modules
func LoadAll(db *gorm.DB) error {
	return Registry.LoadAll(db)
}

// LoadAll migrates and initializes all registered modules in dependency order
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module system already initialized")
		return nil
	}

	order, err := r.initOrder()
	if err != nil {
		return err
	}

	logger.Info("Loading modules", "count", len(order))
	for i, m := range order {
		logger.Info("Initializing module",
			"module", m.Name(), "position", fmt.Sprintf("%d/%d", i+1, len(order)))

		if err := m.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", m.Name(), err)
		}
		if err := m.Init(db); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", m.Name(), err)
		}
	}

	r.initialized = true
	return nil
}

// initOrder resolves module dependencies into an initialization order.
// Registration order is preserved between independent modules.
func (r *ModuleRegistry) initOrder() ([]Module, error) {
	var order []Module
	state := make(map[string]int) // 0 unvisited, 1 visiting, 2 done

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case 1:
			return fmt.Errorf("module dependency cycle involving %s", id)
		case 2:
			return nil
		}
		m, exists := r.modules[id]
		if !exists {
			return fmt.Errorf("unknown module dependency: %s", id)
		}
		state[id] = 1
		if dep, ok := m.(DependencyDeclarer); ok {
			for _, d := range dep.Dependencies() {
				if err := visit(d); err != nil {
					return err
				}
			}
		}
		state[id] = 2
		order = append(order, m)
		return nil
	}

	for _, id := range r.order {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func RegisterRoutes(router *gin.Engine) {
	Registry.RegisterRoutes(router)
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		m := r.modules[id]
		if registrar, ok := m.(RouteRegistrar); ok {
			logger.Info("Registering routes", "module", m.Name())
			registrar.RegisterRoutes(router)
		}
	}
}

// ShutdownAll shuts down modules in reverse initialization order
func ShutdownAll(ctx context.Context) {
	Registry.ShutdownAll(ctx)
}

// ShutdownAll shuts down modules in reverse initialization order
func (r *ModuleRegistry) ShutdownAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		m := r.modules[r.order[i]]
		if s, ok := m.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				logger.Error("Module shutdown failed", "module", m.Name(), "error", err)
			}
		}
	}
}

// GetModule returns a module by ID
func GetModule(id string) (Module, bool) {
	return Registry.GetModule(id)
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, exists := r.modules[id]
	return m, exists
}

// ListModules returns all registered modules in registration order
func ListModules() []Module {
	return Registry.ListModules()
}

// ListModules returns all registered modules in registration order
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]Module, 0, len(r.order))
	for _, id := range r.order {
		modules = append(modules, r.modules[id])
	}
	return modules
}

// Reset clears the registry. Used by tests.
func (r *ModuleRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = make(map[string]Module)
	r.order = nil
	r.initialized = false
}
