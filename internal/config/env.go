package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one that loads wins.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads a dotenv file into the process environment so that
// ${VAR} references in the config file can resolve from it. Existing process
// environment variables are not overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", path))
		return
	}
}

// LogLevel returns the level named by ASSETBUILDER_LOG_LEVEL, or the
// verbose/info default when unset or unknown.
func LogLevel(verbose bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ASSETBUILDER_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
