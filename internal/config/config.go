package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port     string
	LogLevel string
	APIKey   string

	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	DatabaseURL     string
	SQLitePath      string
	S3Bucket        string
	AWSRegion       string
	S3Endpoint      string
	RabbitMQURL     string
	ShutdownTimeout time.Duration
}

// ClientConfig configures blogctl and any other consumer of the HTTP API.
type ClientConfig struct {
	APIURL           string
	APIKey           string
	User             string
	LogLevel         string
	AutoSaveInterval time.Duration
	RequestTimeout   time.Duration
}

func Load(logger zerolog.Logger) *Config {
	loadDotEnv(logger)

	return &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		APIKey:          getEnv("API_KEY", ""),
		StoreDriver:     getEnv("STORE_DRIVER", DriverMongo),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "quill"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "./quill.db"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func LoadClient(logger zerolog.Logger) *ClientConfig {
	loadDotEnv(logger)

	return &ClientConfig{
		APIURL:           getEnv("QUILL_API_URL", "http://localhost:8080"),
		APIKey:           getEnv("API_KEY", ""),
		User:             getEnv("QUILL_USER", os.Getenv("USER")),
		LogLevel:         getEnv("LOG_LEVEL", "warn"),
		AutoSaveInterval: getEnvDuration("AUTOSAVE_INTERVAL", 30*time.Second),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

func loadDotEnv(logger zerolog.Logger) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("loading .env failed")
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Bare integers are read as seconds.
		if n := getEnvInt(key, -1); n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
