package config

import (
	"os"
	"strconv"
	"strings"

	"tasktracker/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName     string   `yaml:"app_name"`
	AppVersion  string   `yaml:"app_version"`
	Debug       bool     `yaml:"debug"`
	AppPort     string   `yaml:"app_port"`
	DatabaseURL string   `yaml:"database_url"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Monitoring
	EnableMetrics bool `yaml:"enable_metrics"`

	// Pagination ceiling for task listings
	MaxListLimit int `yaml:"max_list_limit"`

	// Rate limiting (fail-open when RedisAddr is empty)
	APIRateLimit  int    `yaml:"api_rate_limit"`
	APIRateWindow int    `yaml:"api_rate_window_seconds"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

func defaults() *Config {
	return &Config{
		AppName:       "tasktracker",
		AppVersion:    "2.0.0",
		AppPort:       "8080",
		DatabaseURL:   "tasks.db",
		CORSOrigins:   []string{"*"},
		EnableMetrics: true,
		MaxListLimit:  1000,
		APIRateLimit:  10,
		APIRateWindow: 60,
		LogLevel:      "info",
	}
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overridden by environment variables. A .env file is honored if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("failed to read config file", "path", path, "error", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Fatal("failed to parse config file", "path", path, "error", err)
		}
	}

	if v := os.Getenv("APP_NAME"); v != "" {
		cfg.AppName = v
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.AppVersion = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		cfg.AppPort = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	// comma-separated list of allowed origins
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}

	if v := os.Getenv("ENABLE_METRICS"); v != "" {
		cfg.EnableMetrics = v != "false" && v != "0"
	}
	if v := os.Getenv("MAX_LIST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxListLimit = n
		}
	}

	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateLimit = n
		}
	}
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateWindow = n
		}
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		cfg.LogJSON = v == "true" || v == "1"
	}

	return cfg
}
