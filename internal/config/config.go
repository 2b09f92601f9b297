// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/blob"
	"inkwell/internal/mailer"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// MongoConfig holds document store connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// AuthConfig holds session credential settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Mongo          *MongoConfig
	Auth           *AuthConfig
	SMTP           mailer.Config
	Blob           blob.MinioConfig
	AppBaseURL     string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",          // Current directory
		"../../.env",    // Project root when running from cmd/server
		"../../../.env", // Even higher directory
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	mongoConfig := &MongoConfig{
		URI:      os.Getenv("MONGODB_URI"),
		Database: "inkwell",
	}
	if dbName := os.Getenv("MONGODB_DATABASE"); dbName != "" {
		mongoConfig.Database = dbName
	}

	authConfig := &AuthConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,
	}
	if authConfig.JWTSecret == "" {
		authConfig.JWTSecret = "inkwell_secret_key_should_be_loaded_from_env"
	}
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			authConfig.TokenTTL = time.Duration(hours) * time.Hour
		}
	}

	smtpConfig := mailer.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM_EMAIL"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
	}

	blobConfig := blob.MinioConfig{
		Endpoint:      os.Getenv("MINIO_ENDPOINT"),
		AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		Bucket:        "inkwell-media",
		UseSSL:        os.Getenv("MINIO_USE_SSL") == "true",
		PublicBaseURL: os.Getenv("MINIO_PUBLIC_URL"),
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		blobConfig.Bucket = bucket
	}

	appBaseURL := os.Getenv("APP_BASE_URL")
	if appBaseURL == "" {
		appBaseURL = "http://localhost:3000"
	}

	var allowedOrigins []string
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	return &Config{
		Server:         serverConfig,
		Mongo:          mongoConfig,
		Auth:           authConfig,
		SMTP:           smtpConfig,
		Blob:           blobConfig,
		AppBaseURL:     appBaseURL,
		AllowedOrigins: allowedOrigins,
		Debug:          os.Getenv("DEBUG") == "true",
	}, nil
}
