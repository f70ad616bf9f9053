// Package server assembles the gin router from the registered modules.
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whoniverse/archive/internal/config"
	"github.com/whoniverse/archive/internal/middleware"
	"github.com/whoniverse/archive/internal/modules/modulemanager"

	// Import all modules to trigger their registration
	_ "github.com/whoniverse/archive/internal/modules/archivemodule"
	_ "github.com/whoniverse/archive/internal/modules/databasemodule"
	_ "github.com/whoniverse/archive/internal/modules/llmmodule"
	_ "github.com/whoniverse/archive/internal/modules/querymodule"
)

// SetupRouter configures and returns the main router
func SetupRouter() *gin.Engine {
	cfg := config.Get()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())

	if cfg.Server.EnableCORS {
		r.Use(corsMiddleware())
	}

	r.GET("/api/health", handleHealth)

	// Static browser UI, when bundled
	if cfg.Server.StaticDir != "" {
		if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
			r.Static("/web", cfg.Server.StaticDir)
		}
	}

	modulemanager.RegisterRoutes(r)

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
