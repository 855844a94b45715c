package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	FrontendDir  string
	UploadDir    string
	JWTSecret    string
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration in development. A missing JWT secret is fatal in
// production: tokens signed with a guessable secret are worthless.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("MT_ENV", "development"),
		HTTPPort:     getEnv("MT_HTTP_PORT", "8080"),
		DatabasePath: getEnv("MT_DB_PATH", filepath.Join("data", "movetrack.db")),
		FrontendDir:  getEnv("MT_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		UploadDir:    getEnv("MT_UPLOAD_DIR", filepath.Join("data", "uploads")),
		JWTSecret:    os.Getenv("MT_JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return Config{}, fmt.Errorf("MT_JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "movetrack-dev-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure upload directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
