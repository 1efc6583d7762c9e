package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the server needs at startup. Values come from a
// YAML file (ACADEMIA_CONFIG, default config/config.yaml) overridden by
// environment variables; when no file exists the environment alone is used.
type Config struct {
	Env        string `yaml:"env" env:"ACADEMIA_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Backend    `yaml:"backend"`
	Session    `yaml:"session"`
	Email      `yaml:"email"`
}

type HTTPServer struct {
	Address            string        `yaml:"address" env:"ACADEMIA_ADDR" env-default:":8080"`
	IdleTimeout        time.Duration `yaml:"idle_timeout" env-default:"60s"`
	CSRFKey            string        `yaml:"csrf_key" env:"ACADEMIA_CSRF_KEY"`
	RateLimitPerSecond int           `yaml:"rate_limit_per_second" env-default:"10"`
	StaticDir          string        `yaml:"static_dir" env-default:"static"`
}

// Backend locates the REST API that owns all gym data.
type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"ACADEMIA_BACKEND_URL" env-default:"http://localhost:3000/api"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"5s"`
}

// Session configures the local session store. This is the only state the
// server persists itself; all gym data lives behind the backend.
type Session struct {
	DBPath string        `yaml:"db_path" env:"ACADEMIA_SESSION_DB" env-default:"sessions.db"`
	TTL    time.Duration `yaml:"ttl" env-default:"24h"`
}

// Email configures the contact-form sender. An empty ResendKey disables real
// delivery.
type Email struct {
	ResendKey string `yaml:"resend_key" env:"ACADEMIA_RESEND_KEY"`
	From      string `yaml:"from" env-default:"Academia <noreply@academiadecombate.com>"`
	ContactTo string `yaml:"contact_to" env-default:"info@academiadecombate.com"`
}

// MustLoad reads configuration or exits the process.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("ACADEMIA_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("failed to read config file %s: %v", configPath, err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read config from environment: %v", err)
	}
	return &cfg
}
