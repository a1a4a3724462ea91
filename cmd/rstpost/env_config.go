package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-rstpost/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // RSTPOST_CONFIG: config file name or path
	OutputDir  string // RSTPOST_OUTPUT_DIR: default output directory
	Format     string // RSTPOST_FORMAT: json, yaml or html
	Style      string // RSTPOST_STYLE: highlight style
	Author     string // RSTPOST_AUTHOR: default post author
	BaseURL    string // RSTPOST_BASE_URL: site base URL
	Workers    int    // RSTPOST_WORKERS: parallel workers
}

// knownEnvVars lists valid RSTPOST_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"RSTPOST_CONFIG":     true,
	"RSTPOST_OUTPUT_DIR": true,
	"RSTPOST_FORMAT":     true,
	"RSTPOST_STYLE":      true,
	"RSTPOST_AUTHOR":     true,
	"RSTPOST_BASE_URL":   true,
	"RSTPOST_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("RSTPOST_CONFIG"),
		OutputDir:  os.Getenv("RSTPOST_OUTPUT_DIR"),
		Format:     strings.ToLower(os.Getenv("RSTPOST_FORMAT")),
		Style:      os.Getenv("RSTPOST_STYLE"),
		Author:     os.Getenv("RSTPOST_AUTHOR"),
		BaseURL:    os.Getenv("RSTPOST_BASE_URL"),
	}

	if workers := os.Getenv("RSTPOST_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for every unrecognized RSTPOST_* variable.
// Helps catch typos like RSTPOST_OUTPUTDIR.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "RSTPOST_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded config.
// CLI flags are merged afterwards, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Style != "" {
		cfg.Highlight.Style = env.Style
	}
	if env.Author != "" {
		cfg.Post.DefaultAuthor = env.Author
	}
	if env.BaseURL != "" {
		cfg.Render.BaseURL = env.BaseURL
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
