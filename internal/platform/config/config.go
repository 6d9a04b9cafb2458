package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config del web client. Todo viene por env vars; los defaults
// apuntan al API local de desarrollo.
type Config struct {
	Port       string
	APIBaseURL string
	APITimeout time.Duration

	// DSN de Postgres para el store de sesiones. Vacío => in-memory.
	DBDSN string

	SessionTTL time.Duration

	LogLevel  string
	LogFormat string
	AppName   string
}

// Load lee la configuración desde el entorno.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("api_base_url", "http://localhost:8000/api")
	v.SetDefault("api_timeout", "10s")
	v.SetDefault("db_dsn", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("app_name", "petconnect-web")

	cfg := Config{
		Port:       v.GetString("port"),
		APIBaseURL: strings.TrimSpace(v.GetString("api_base_url")),
		APITimeout: v.GetDuration("api_timeout"),
		DBDSN:      strings.TrimSpace(v.GetString("db_dsn")),
		SessionTTL: v.GetDuration("session_ttl"),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		AppName:    v.GetString("app_name"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 10 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return cfg, nil
}
