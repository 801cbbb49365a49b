package config

import (
	"errors"
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// TrackerConfig carries everything the tracker binary needs beyond AppConfig.
// REDIS_URL and NATS_URL are optional: the service degrades to an in-process
// cache and a no-op event publisher when they are absent.
type TrackerConfig struct {
	App           AppConfig
	DatabaseURL   string
	JWTSecret     string
	YouTubeAPIKey string
	GeminiAPIKey  string
	RedisURL      string
	NATSURL       string
}

func LoadTracker() (TrackerConfig, error) {
	app, err := Load()
	if err != nil {
		return TrackerConfig{}, err
	}
	cfg := TrackerConfig{
		App:           app,
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		YouTubeAPIKey: strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
	}
	if cfg.DatabaseURL == "" {
		return TrackerConfig{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return TrackerConfig{}, errors.New("JWT_SECRET is required")
	}
	if cfg.YouTubeAPIKey == "" {
		return TrackerConfig{}, errors.New("YOUTUBE_API_KEY is required")
	}
	return cfg, nil
}
