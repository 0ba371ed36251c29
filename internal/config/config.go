package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded once at startup
type Config struct {
	HTTPPort       string
	Env            string
	AllowedOrigins string

	JWTSecret string

	// Chat completion endpoint. An empty OpenAIAPIKey switches the
	// assistant over to the canned fallback responder.
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Session store backend: file | redis | postgres
	SessionStore string
	SessionFile  string
	RedisAddr    string
	RedisDB      int
	PostgresURL  string

	// Simulated network latency for the stand-in identity providers
	LoginDelay time.Duration
}

// Load reads configuration from .env / environment variables
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		HTTPPort:       getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		SessionStore:   getEnv("SESSION_STORE", "file"),
		SessionFile:    getEnv("SESSION_FILE", "pawlingo_user.json"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		PostgresURL:    getEnv("DATABASE_URL", ""),
		LoginDelay:     getEnvAsDuration("LOGIN_DELAY", time.Second),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
