package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	// ConnectAttempts bounds the startup pings while the server comes up.
	ConnectAttempts int
}

// MinIOConfig holds object storage settings for archived test results.
// Archiving is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether object storage was configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// RedisConfig holds cache settings. Caching falls back to in-process when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QuizConfig holds the practice-test tunables shared by the API.
type QuizConfig struct {
	DefaultQuestions      int
	MaxQuestions          int
	TimePerQuestionSec    int
	CountsCacheTTLSec     int
	ExportURLExpirySec    int
	LeaderboardMaxEntries int
}

// CountsCacheTTL returns the question-count cache TTL as a duration.
func (c QuizConfig) CountsCacheTTL() time.Duration {
	return time.Duration(c.CountsCacheTTLSec) * time.Second
}

// ExportURLExpiry returns how long presigned export links stay valid.
func (c QuizConfig) ExportURLExpiry() time.Duration {
	return time.Duration(c.ExportURLExpirySec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the public host:port clients reach the API on. It is not a bind address.
	AppHost string
	// ListenHost is the interface the server binds; empty means all.
	ListenHost string
	Port       string
	TimeZone   string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Redis      RedisConfig
	Quiz       QuizConfig
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		ListenHost: getEnv("APP_LISTEN_HOST", ""),
		Port:       getEnv("PORT", "8080"),
		TimeZone:   getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectAttempts:    getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "test-results"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Quiz: QuizConfig{
			DefaultQuestions:      getEnvInt("QUIZ_DEFAULT_QUESTIONS", 30),
			MaxQuestions:          getEnvInt("QUIZ_MAX_QUESTIONS", 50),
			TimePerQuestionSec:    getEnvInt("QUIZ_TIME_PER_QUESTION_SEC", 18),
			CountsCacheTTLSec:     getEnvInt("QUIZ_COUNTS_CACHE_TTL_SEC", 300),
			ExportURLExpirySec:    getEnvInt("QUIZ_EXPORT_URL_EXPIRY_SEC", 900),
			LeaderboardMaxEntries: getEnvInt("QUIZ_LEADERBOARD_MAX", 100),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
