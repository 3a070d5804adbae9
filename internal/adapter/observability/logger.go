// Package observability provides the structured logger used across the
// checking pipeline.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/kytta/LaTeXBuddy/internal/config"
)

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes structured logs via the standard log package.
type DefaultLogger struct {
	level  LogLevel
	format LogFormat
}

// NewDefaultLogger creates a logger with the specified config.
func NewDefaultLogger(level LogLevel, format LogFormat) *DefaultLogger {
	return &DefaultLogger{level: level, format: format}
}

// FromConfig builds a logger from the logging configuration. A disabled
// config yields a logger that only reports errors.
func FromConfig(cfg config.LoggingConfig) *DefaultLogger {
	level := LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = LogLevelDebug
	case "error":
		level = LogLevelError
	}
	if !cfg.Enabled {
		level = LogLevelError
	}

	format := LogFormatHuman
	if cfg.Format == "json" {
		format = LogFormatJSON
	}
	return NewDefaultLogger(level, format)
}

// LogInfo logs an informational message with structured fields.
func (l *DefaultLogger) LogInfo(_ context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.emit("INFO", "info", message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *DefaultLogger) LogWarning(_ context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelWarning {
		return
	}
	l.emit("WARN", "warning", message, fields)
}

// LogError logs an error message with structured fields.
func (l *DefaultLogger) LogError(_ context.Context, message string, fields map[string]interface{}) {
	l.emit("ERROR", "error", message, fields)
}

func (l *DefaultLogger) emit(tag, level, message string, fields map[string]interface{}) {
	if l.format == LogFormatJSON {
		entry := map[string]interface{}{
			"level":   level,
			"message": message,
		}
		for key, value := range fields {
			entry[key] = value
		}
		data, err := json.Marshal(entry)
		if err != nil {
			log.Printf("[%s] %s (unloggable fields: %v)", tag, message, err)
			return
		}
		log.Printf("%s", data)
		return
	}

	log.Printf("[%s] %s%s", tag, message, formatFields(fields))
}

// formatFields renders fields as " key=value" pairs in key order for
// stable output.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, fields[key])
	}
	return b.String()
}
