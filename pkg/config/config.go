package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	Documents DocumentsConfig
	Uploads   UploadsConfig
	Activity  ActivityConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig tunes the aggregation snapshot pipeline.
type DashboardConfig struct {
	Enabled         bool
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	RefreshTimeout  time.Duration
	FeedBaseURL     string
	FeedTimeout     time.Duration
}

// DocumentsConfig controls generated document storage and download tokens.
type DocumentsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	RetentionTTL    time.Duration
	Municipality    string
	Barangay        string
	Captain         string
	Secretary       string
}

// UploadsConfig controls announcement attachment storage.
type UploadsConfig struct {
	StorageDir       string
	MaxFileSizeBytes int64
}

// ActivityConfig tunes the write-behind activity log queue.
type ActivityConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
}

// RateLimitConfig throttles authentication endpoints.
type RateLimitConfig struct {
	Enabled     bool
	LoginPerMin uint
	LoginWindow time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		Enabled:         v.GetBool("ENABLE_DASHBOARD"),
		CacheTTL:        parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
		RefreshInterval: parseDuration(v.GetString("DASHBOARD_REFRESH_INTERVAL"), 5*time.Minute),
		RefreshTimeout:  parseDuration(v.GetString("DASHBOARD_REFRESH_TIMEOUT"), 90*time.Second),
		FeedBaseURL:     v.GetString("DASHBOARD_FEED_BASE_URL"),
		FeedTimeout:     parseDuration(v.GetString("DASHBOARD_FEED_TIMEOUT"), 15*time.Second),
	}

	cfg.Documents = DocumentsConfig{
		StorageDir:      v.GetString("DOCUMENTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("DOCUMENTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("DOCUMENTS_SIGNED_URL_TTL"), 24*time.Hour),
		RetentionTTL:    parseDuration(v.GetString("DOCUMENTS_RETENTION_TTL"), 0),
		Municipality:    v.GetString("BARANGAY_MUNICIPALITY"),
		Barangay:        v.GetString("BARANGAY_NAME"),
		Captain:         v.GetString("BARANGAY_CAPTAIN"),
		Secretary:       v.GetString("BARANGAY_SECRETARY"),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 25 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		StorageDir:       v.GetString("UPLOADS_STORAGE_DIR"),
		MaxFileSizeBytes: maxUploadSize,
	}

	cfg.Activity = ActivityConfig{
		Workers:    v.GetInt("ACTIVITY_LOG_WORKERS"),
		BufferSize: v.GetInt("ACTIVITY_LOG_BUFFER"),
		MaxRetries: v.GetInt("ACTIVITY_LOG_RETRIES"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:     v.GetBool("ENABLE_RATE_LIMIT"),
		LoginPerMin: uint(v.GetInt("LOGIN_RATE_PER_MINUTE")),
		LoginWindow: parseDuration(v.GetString("LOGIN_RATE_WINDOW"), time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "barangay_hub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
	v.SetDefault("DASHBOARD_REFRESH_INTERVAL", "5m")
	v.SetDefault("DASHBOARD_REFRESH_TIMEOUT", "90s")
	v.SetDefault("DASHBOARD_FEED_BASE_URL", "")
	v.SetDefault("DASHBOARD_FEED_TIMEOUT", "15s")

	v.SetDefault("DOCUMENTS_STORAGE_DIR", "./generated")
	v.SetDefault("DOCUMENTS_SIGNED_URL_SECRET", "dev_documents_secret")
	v.SetDefault("DOCUMENTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("DOCUMENTS_RETENTION_TTL", "0")
	v.SetDefault("BARANGAY_MUNICIPALITY", "Municipality of San Isidro")
	v.SetDefault("BARANGAY_NAME", "Barangay Poblacion")
	v.SetDefault("BARANGAY_CAPTAIN", "Hon. Barangay Captain")
	v.SetDefault("BARANGAY_SECRETARY", "")

	v.SetDefault("UPLOADS_STORAGE_DIR", "./uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 25*1024*1024)

	v.SetDefault("ACTIVITY_LOG_WORKERS", 1)
	v.SetDefault("ACTIVITY_LOG_BUFFER", 64)
	v.SetDefault("ACTIVITY_LOG_RETRIES", 3)

	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
