package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTTTL = 24 * time.Hour

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	LogLevel   string
	JWTSecret  string
	JWTTTL     time.Duration
}

func LoadConfig() *Config {
	cfg := LoadDatabaseConfig()

	cfg.AppPort = os.Getenv("APP_PORT")
	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.JWTTTL = parseTTL(os.Getenv("JWT_TTL"))

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET env is not provided")
	}

	return cfg
}

// LoadDatabaseConfig reads only the DB_* settings, for tools that never
// serve requests.
func LoadDatabaseConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// parseTTL falls back to the default for empty or malformed values.
func parseTTL(raw string) time.Duration {
	if raw == "" {
		return defaultJWTTTL
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultJWTTTL
	}
	return d
}
