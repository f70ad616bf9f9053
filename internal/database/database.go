package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/whoniverse/archive/internal/config"
	"github.com/whoniverse/archive/internal/logger"
)

var db *gorm.DB

// Initialize opens the database connection described by the configuration
// and applies connection pool settings.
func Initialize() error {
	cfg := config.Get()

	var err error
	switch cfg.Database.Type {
	case "postgres":
		db, err = connectPostgres(&cfg.Database)
	case "sqlite":
		db, err = connectSQLite(&cfg.Database)
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", cfg.Database.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logger.Info("Database initialized", "type", cfg.Database.Type)
	return nil
}

func connectPostgres(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)

	return gorm.Open(postgres.Open(dsn), gormConfig(cfg))
}

func connectSQLite(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, err
	}
	return gorm.Open(sqlite.Open(cfg.DatabasePath), gormConfig(cfg))
}

func gormConfig(cfg *config.DatabaseConfig) *gorm.Config {
	logMode := gormlogger.Default.LogMode(gormlogger.Silent)
	if cfg.LogQueries {
		logMode = gormlogger.Default.LogMode(gormlogger.Info)
	}
	return &gorm.Config{
		Logger: logMode,
		// Driver errors (e.g. unique violations) are translated into
		// gorm's portable error values.
		TranslateError: true,
	}
}

// GetDB returns the shared database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB replaces the shared database instance. Used by tests.
func SetDB(conn *gorm.DB) {
	db = conn
}
