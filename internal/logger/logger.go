package logger

import (
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

var (
	mu   sync.Mutex
	root hclog.Logger
	once sync.Once
)

// Init bootstraps the root logger from LOG_LEVEL / LOG_FORMAT so logging
// works before configuration is loaded. Only the first call takes effect.
func Init() {
	once.Do(func() {
		Configure(levelFromEnv(), os.Getenv("LOG_FORMAT"))
	})
}

// Configure rebuilds the root logger. Called again with the logging section
// once configuration is loaded, so file and env settings both apply.
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	root = hclog.New(&hclog.LoggerOptions{
		Name:       "archive",
		Level:      hclog.LevelFromString(level),
		JSONFormat: format == "json",
		Output:     os.Stdout,
	})
}

func levelFromEnv() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

func get() hclog.Logger {
	Init()
	mu.Lock()
	defer mu.Unlock()
	return root
}

// Info logs informational messages with optional key/value pairs
func Info(msg string, args ...interface{}) {
	get().Info(msg, normalize(args)...)
}

// Warn logs warning messages
func Warn(msg string, args ...interface{}) {
	get().Warn(msg, normalize(args)...)
}

// Error logs error messages
func Error(msg string, args ...interface{}) {
	get().Error(msg, normalize(args)...)
}

// Debug logs debug messages (suppressed unless LOG_LEVEL=debug)
func Debug(msg string, args ...interface{}) {
	get().Debug(msg, normalize(args)...)
}

// Named returns a sub-logger scoped to a component name
func Named(name string) hclog.Logger {
	return get().Named(name)
}

// normalize flattens Field arguments into hclog's alternating key/value form
func normalize(args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		if f, ok := a.(Field); ok {
			out = append(out, f.Key, f.Value)
			continue
		}
		out = append(out, a)
	}
	return out
}

// Helper functions for common field types

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Err(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Value: nil}
	}
	return Field{Key: key, Value: err.Error()}
}
