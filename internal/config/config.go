package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"goal-tracker-go/pkg/logger"
)

type Config struct {
	HTTPPort       string
	Env            string
	CORSOrigins    []string
	MetricsEnabled bool
	DB             DBConfig
	Supabase       SupabaseConfig
	Storage        StorageConfig
	Mail           MailConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type SupabaseConfig struct {
	URL           string
	AnonKey       string
	JWKSURL       string
	JWTSecret     string
	JWTAudience   string
	SkipAuth      bool
	MockUserID    string
	MockUserEmail string
	MockUserName  string
}

type StorageConfig struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SignedURLTTL time.Duration
}

type MailConfig struct {
	ResendAPIKey string
	From         string
	AppURL       string
}

var developmentOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:80",
	"http://localhost",
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := getEnv("ENV", getEnv("ENVIRONMENT", "development"))
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	defaultJWKS := ""
	if supabaseURL != "" {
		defaultJWKS = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	var origins []string
	if env == "development" {
		origins = developmentOrigins
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", getEnv("PORT", "8000")),
		Env:            env,
		CORSOrigins:    getEnvList("CORS_ORIGINS", origins),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", getEnv("DATABASE_URL", "")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "goal_tracker"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL:           supabaseURL,
			AnonKey:       getEnv("SUPABASE_ANON_KEY", ""),
			JWKSURL:       getEnv("SUPABASE_JWKS_URL", defaultJWKS),
			JWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
			JWTAudience:   getEnv("JWT_AUDIENCE", "authenticated"),
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			MockUserID:    getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail: getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:  getEnv("AUTH_MOCK_USER_NAME", ""),
		},
		Storage: StorageConfig{
			Bucket:       getEnv("STORAGE_BUCKET", "goal-files"),
			Region:       getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:     getEnv("STORAGE_ENDPOINT", ""),
			AccessKey:    getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:    getEnv("STORAGE_SECRET_KEY", ""),
			SignedURLTTL: getEnvDuration("STORAGE_SIGNED_URL_TTL", time.Hour),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", "Goal Tracker <noreply@goaltracker.local>"),
			AppURL:       strings.TrimRight(getEnv("APP_URL", "http://localhost:5173"), "/"),
		},
	}

	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
