package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Natural-language query adapter configuration
	LLM LLMConfig `yaml:"llm" json:"llm"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string        `yaml:"host" json:"host" env:"ARCHIVE_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" json:"port" env:"ARCHIVE_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" env:"ARCHIVE_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" env:"ARCHIVE_WRITE_TIMEOUT" default:"30s"`
	EnableCORS   bool          `yaml:"enable_cors" json:"enable_cors" env:"ARCHIVE_ENABLE_CORS" default:"true"`
	StaticDir    string        `yaml:"static_dir" json:"static_dir" env:"ARCHIVE_STATIC_DIR" default:"./web"`
}

// DatabaseConfig holds database connection and pool options
type DatabaseConfig struct {
	Type            string        `yaml:"type" json:"type" env:"DATABASE_TYPE" default:"sqlite"`
	Host            string        `yaml:"host" json:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port            int           `yaml:"port" json:"port" env:"POSTGRES_PORT" default:"5432"`
	Username        string        `yaml:"username" json:"username" env:"POSTGRES_USER" default:"archive"`
	Password        string        `yaml:"password" json:"password" env:"POSTGRES_PASSWORD"`
	Database        string        `yaml:"database" json:"database" env:"POSTGRES_DB" default:"archive"`
	DataDir         string        `yaml:"data_dir" json:"data_dir" env:"ARCHIVE_DATA_DIR" default:"./data"`
	DatabasePath    string        `yaml:"database_path" json:"database_path" env:"ARCHIVE_DATABASE_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"2h"`
	LogQueries      bool          `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES" default:"false"`
}

// LLMConfig holds the chat-completion API options
type LLMConfig struct {
	APIKey      string  `yaml:"api_key" json:"-" env:"LLM_API_KEY"`
	Model       string  `yaml:"model" json:"model" env:"LLM_MODEL" default:"gpt-3.5-turbo"`
	Temperature float64 `yaml:"temperature" json:"temperature" env:"LLM_TEMPERATURE" default:"0.7"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens" env:"LLM_MAX_TOKENS" default:"500"`
}

// LoggingConfig holds logging options
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT" default:"text"`
}

var (
	mu      sync.RWMutex
	current = mustDefaults()
)

// Get returns a copy of the current global configuration
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	cp := *current
	return &cp
}

// Load builds the configuration in three layers: struct-tag defaults, an
// optional yaml/json file, then environment variable overrides.
func Load(configPath string) error {
	cfg := mustDefaults()

	if configPath != "" && fileExists(configPath) {
		if err := loadFromFile(configPath, cfg); err != nil {
			return fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := applyStruct(reflect.ValueOf(cfg).Elem(), envOnly); err != nil {
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDerived(cfg)

	mu.Lock()
	current = cfg
	mu.Unlock()
	return nil
}

func mustDefaults() *Config {
	cfg := &Config{}
	if err := applyStruct(reflect.ValueOf(cfg).Elem(), defaultsOnly); err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return cfg
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}
}

type tagMode int

const (
	defaultsOnly tagMode = iota
	envOnly
)

// applyStruct walks the config struct, filling fields from either their
// default tags or their env tags depending on mode.
func applyStruct(v reflect.Value, mode tagMode) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := applyStruct(field, mode); err != nil {
				return err
			}
			continue
		}

		var value string
		switch mode {
		case defaultsOnly:
			value = fieldType.Tag.Get("default")
		case envOnly:
			if envTag := fieldType.Tag.Get("env"); envTag != "" {
				value = os.Getenv(envTag)
			}
		}
		if value == "" {
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		}
	case reflect.Float32, reflect.Float64:
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.Type != "sqlite" && cfg.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if cfg.LLM.MaxTokens <= 0 {
		return fmt.Errorf("invalid llm max_tokens: %d", cfg.LLM.MaxTokens)
	}
	return nil
}

func applyDerived(cfg *Config) {
	if cfg.Database.DatabasePath == "" && cfg.Database.Type == "sqlite" {
		cfg.Database.DatabasePath = filepath.Join(cfg.Database.DataDir, "archive.db")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
