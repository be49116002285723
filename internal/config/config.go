package config

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// Storage drivers understood by StorageConfig.Driver.
const (
	DriverR2    = "r2"
	DriverMinIO = "minio"
)

// DefaultBucket is the object bucket every file binary lives in.
const DefaultBucket = "files"

type StorageConfig struct {
	Driver          string
	AccountID       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// SMTPConfig is the outgoing mail server. An empty Host disables delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	RedirectURL        string
}

type Config struct {
	DB_URL      string
	Port        string
	JWTSecret   string
	Environment string
	LogLevel    string
	FrontendURL string
	CorsConfig  cors.Options
	Storage     StorageConfig
	OAuth       OAuthConfig
	SMTP        SMTPConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ChatWebhookURL   string
	ChatRatePerMin   int
	OTLPEndpoint     string
	ServiceName      string
	UploadMaxBytes   int64
	UploadWorkers    int
	ListTimeout      time.Duration
	SessionTTL       time.Duration
	PasswordResetTTL time.Duration
}

// Load reads the environment, after merging in the file named by ENV_FILE (default .env).
// A missing env file is not an error; the second return value reports whether one was read.
func Load() (Config, bool) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	loaded := godotenv.Load(envFile) == nil

	frontend := strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/")

	return Config{
		DB_URL:      getEnv("DB_URL", ""),
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: frontend,
		CorsConfig:  CorsConfig(frontend),
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", DriverR2)),
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("STORAGE_BUCKET", DefaultBucket),
			Region:          getEnv("STORAGE_REGION", "auto"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", true),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:        getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/callback"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Optivus <no-reply@optivus.app>"),
		},
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		ChatWebhookURL:   getEnv("CHAT_WEBHOOK_URL", "https://n8n.solynex.me/webhook/optivus-chat"),
		ChatRatePerMin:   getEnvAsInt("CHAT_RATE_PER_MIN", 20),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", ""),
		ServiceName:      getEnv("SERVICE_NAME", "optivus"),
		UploadMaxBytes:   int64(getEnvAsInt("UPLOAD_MAX_MB", 100)) << 20,
		UploadWorkers:    getEnvAsInt("UPLOAD_CONCURRENCY", 4),
		ListTimeout:      getEnvAsDuration("LIST_TIMEOUT", 5*time.Second),
		SessionTTL:       getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		PasswordResetTTL: getEnvAsDuration("PASSWORD_RESET_TTL", time.Hour),
	}, loaded
}

// MissingBackend lists the required backend settings that are unset.
// An empty result means data operations may reach the backend.
func (c Config) MissingBackend() []string {
	var missing []string
	if c.DB_URL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.Storage.AccessKeyID == "" {
		missing = append(missing, "STORAGE_ACCESS_KEY_ID")
	}
	return missing
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func CorsConfig(frontendURL string) cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
