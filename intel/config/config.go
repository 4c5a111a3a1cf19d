// Package config reads the server's environment-variable configuration
// (spec §6.3), grounded on the teacher's env-driven runner configuration
// (runner package) generalized from its flag set to this server's.
package config

import (
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// Config is the server's runtime configuration, read once at startup.
type Config struct {
	SolutionPath         string
	LogLevel             zapcore.Level
	EnableSemanticCache  bool
	MaxDiagnostics       int
	TimeoutSeconds       int
	DeadCodeMarkersPath  string // DOTNET_INTEL_CONFIG: optional extra framework-marker config
}

const (
	defaultMaxDiagnostics = 100
	defaultTimeoutSeconds = 30
)

// Load reads Config from the process environment.
func Load() Config {
	return Config{
		SolutionPath:        os.Getenv("SOLUTION_PATH"),
		LogLevel:            parseLevel(os.Getenv("LOG_LEVEL")),
		EnableSemanticCache: os.Getenv("ENABLE_SEMANTIC_CACHE") != "false",
		MaxDiagnostics:      parseIntDefault(os.Getenv("MAX_DIAGNOSTICS"), defaultMaxDiagnostics),
		TimeoutSeconds:      parseIntDefault(os.Getenv("TIMEOUT_SECONDS"), defaultTimeoutSeconds),
		DeadCodeMarkersPath: os.Getenv("DOTNET_INTEL_CONFIG"),
	}
}

func parseLevel(raw string) zapcore.Level {
	switch raw {
	case "Debug":
		return zapcore.DebugLevel
	case "Warning":
		return zapcore.WarnLevel
	case "Error":
		return zapcore.ErrorLevel
	default: // "Information" or unset
		return zapcore.InfoLevel
	}
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
