package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type (
	// Config is built once in main and handed by reference to everything
	// that needs it. Nothing outside this package reads the environment.
	Config struct {
		Server ServerConfig `envPrefix:"HTTP_"`
		Mongo  MongoConfig  `envPrefix:"MONGO_"`
		S3     S3Config     `envPrefix:"S3_"`
		Gemini GeminiConfig `envPrefix:"GEMINI_"`
		Auth   AuthConfig   `envPrefix:"AUTH_"`
		Quota  QuotaConfig  `envPrefix:"QUOTA_"`

		// Location is resolved from Quota.Timezone during Load.
		Location *time.Location `env:"-"`
	}

	ServerConfig struct {
		Port         string        `env:"PORT" envDefault:"8080"`
		SignedURLTTL time.Duration `env:"SIGNED_URL_TTL" envDefault:"15m"`
	}

	MongoConfig struct {
		URI      string `env:"URI" envDefault:"mongodb://localhost:27017/"`
		Database string `env:"DATABASE" envDefault:"chronolens"`
	}

	S3Config struct {
		Bucket string `env:"BUCKET"`
		Region string `env:"REGION" envDefault:"ap-northeast-1"`
	}

	GeminiConfig struct {
		// APIKey may be empty at startup; render requests then fail with an
		// internal error instead of the process refusing to boot.
		APIKey string `env:"API_KEY"`
		Model  string `env:"MODEL" envDefault:"gemini-2.5-flash-image-preview"`
	}

	AuthConfig struct {
		JWTSecret string        `env:"JWT_SECRET"`
		TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	}

	QuotaConfig struct {
		DailyLimit      int `env:"DAILY_LIMIT" envDefault:"30"`
		GuestDailyLimit int `env:"GUEST_DAILY_LIMIT" envDefault:"5"`
		// Timezone fixes the civil day used for quota rollover. Days are
		// human-local, not UTC.
		Timezone string `env:"TIMEZONE" envDefault:"Asia/Tokyo"`
	}
)

// Load reads .env if present, parses the environment into a Config and
// resolves the quota timezone.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load quota timezone %q: %w", cfg.Quota.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// DailyLimitFor maps an identity tier to its render budget.
func (c *Config) DailyLimitFor(tier string) int {
	if tier == "guest" {
		return c.Quota.GuestDailyLimit
	}
	return c.Quota.DailyLimit
}
