package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	FrontendURL  string
	JWTSecret    string
	AppEnv       string
	StaticDir    string // When set, non-API routes serve the SPA from here

	// Object storage (S3-compatible).
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string // Base URL under which uploaded objects are reachable

	// Cron expression for the booking completion sweep.
	BookingSweepSchedule string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:           port,
		DatabasePath:         getEnv("DATABASE_PATH", "./bookstay.db"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:            secret,
		AppEnv:               getEnv("APP_ENV", "development"),
		StaticDir:            os.Getenv("STATIC_DIR"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3Region:             getEnv("S3_REGION", "us-east-1"),
		S3Bucket:             getEnv("S3_BUCKET", "bookstay-images"),
		S3AccessKey:          os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:          os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:          os.Getenv("S3_PUBLIC_URL"),
		BookingSweepSchedule: getEnv("BOOKING_SWEEP_SCHEDULE", "@hourly"),
	}, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
