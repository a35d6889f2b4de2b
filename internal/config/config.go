package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port              string `yaml:"port"`
	AppDir            string `yaml:"app_dir"`
	DBPath            string `yaml:"db_path"`
	LogPath           string `yaml:"log_path"`
	LogLevel          string `yaml:"log_level"`
	APIBaseURL        string `yaml:"api_base_url"`
	APITimeoutSeconds int    `yaml:"api_timeout_seconds"`
	ResultLimit       int    `yaml:"result_limit"`
	HistoryLimit      int    `yaml:"history_limit"`
}

// Load resolves configuration in three layers: built-in defaults, an optional
// YAML file (CONFIG_PATH or <app dir>/config.yaml), then environment
// variables. A missing config file is fine; a malformed one is an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	path := getEnv("CONFIG_PATH", filepath.Join(cfg.AppDir, "config.yaml"))
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AppDir = getEnv("APP_DIR", cfg.AppDir)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.LogPath = getEnv("LOG_PATH", cfg.LogPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.APITimeoutSeconds = getEnvInt("API_TIMEOUT_SECONDS", cfg.APITimeoutSeconds)
	cfg.ResultLimit = getEnvInt("RESULT_LIMIT", cfg.ResultLimit)
	cfg.HistoryLimit = getEnvInt("HISTORY_LIMIT", cfg.HistoryLimit)

	// Storage and log paths live under the app dir unless set explicitly.
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.AppDir, "jobfinder.db")
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(cfg.AppDir, "jobfinder.log")
	}

	return cfg, nil
}

func defaults() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Port:              "8080",
		AppDir:            filepath.Join(home, ".jobfinder"),
		LogLevel:          "info",
		APIBaseURL:        "https://jobsearch.api.jobtechdev.se",
		APITimeoutSeconds: 10,
		ResultLimit:       100,
		HistoryLimit:      50,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}
