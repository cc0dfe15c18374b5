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

	Database   DatabaseConfig
	AcademicDB DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	CORS       CORSConfig
	Log        LogConfig
	Forms      FormsConfig
	Submission SubmissionConfig
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

// SessionConfig validates optional evaluator session tokens issued by the
// student portal. This service never issues tokens itself.
type SessionConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FormsConfig governs the read-side form payload cache.
type FormsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// SubmissionConfig tunes the submission pipeline.
type SubmissionConfig struct {
	// DateFormat is the submission_date layout stored in metadata.
	DateFormat string
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

	cfg.AcademicDB = DatabaseConfig{
		Host:         v.GetString("ACADEMIC_DB_HOST"),
		Port:         v.GetInt("ACADEMIC_DB_PORT"),
		User:         v.GetString("ACADEMIC_DB_USER"),
		Password:     v.GetString("ACADEMIC_DB_PASSWORD"),
		Name:         v.GetString("ACADEMIC_DB_NAME"),
		SSLMode:      v.GetString("ACADEMIC_DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("ACADEMIC_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("ACADEMIC_DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{Secret: v.GetString("SESSION_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Forms = FormsConfig{
		CacheEnabled: v.GetBool("ENABLE_FORM_CACHE"),
		CacheTTL:     parseDuration(v.GetString("FORM_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Submission = SubmissionConfig{
		DateFormat: v.GetString("SUBMISSION_DATE_FORMAT"),
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
	v.SetDefault("DB_NAME", "evaluation_quality")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ACADEMIC_DB_HOST", "localhost")
	v.SetDefault("ACADEMIC_DB_PORT", 5432)
	v.SetDefault("ACADEMIC_DB_USER", "postgres")
	v.SetDefault("ACADEMIC_DB_PASSWORD", "postgres")
	v.SetDefault("ACADEMIC_DB_NAME", "academic_registry")
	v.SetDefault("ACADEMIC_DB_SSL_MODE", "disable")
	v.SetDefault("ACADEMIC_DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("ACADEMIC_DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_FORM_CACHE", false)
	v.SetDefault("FORM_CACHE_TTL", "5m")

	v.SetDefault("SUBMISSION_DATE_FORMAT", "2006-01-02 15:04:05")
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
