// Package config loads process configuration from environment variables,
// with optional loading from a .env file.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores all the configuration of the application. The Google API key
// is optional: without it the server still starts but every model-dependent
// endpoint reports a configuration error.
type Config struct {
	// Server settings
	ServerPort   string
	AllowOrigins []string
	LogLevel     string

	// Gemini settings
	GoogleAPIKey  string
	ChatModel     string
	AnalysisModel string

	// Web context settings
	WebContextEnabled bool
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			slog.Info("no .env file found, using environment variables only")
		} else {
			slog.Warn("error loading .env file", "error", err)
		}
	}

	return &Config{
		ServerPort:        getEnv("PORT", "8002"),
		AllowOrigins:      splitList(getEnv("ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:8080")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		ChatModel:         getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash-exp"),
		AnalysisModel:     getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.5-pro"),
		WebContextEnabled: getEnv("WEB_CONTEXT_ENABLED", "true") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
