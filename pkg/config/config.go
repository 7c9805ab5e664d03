package config

import (
	"errors"
	"io/fs"
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
	CORS      CORSConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Scheduler SchedulerConfig
	Exports   ExportsConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// SchedulerConfig tunes the schedule generation engine.
type SchedulerConfig struct {
	MinCombinationSize int
	MaxCombinationSize int
	MinCredits         int
	MaxCredits         int
	Workers            int
	Timeout            time.Duration
	ConflictPolicy     string
	MaxSelectedCourses int
	CacheEnabled       bool
	CacheTTL           time.Duration
}

// ExportsConfig controls rendered schedule downloads.
type ExportsConfig struct {
	Enabled  bool
	PDFTitle string
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
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
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
		Path:    v.GetString("METRICS_PATH"),
	}

	cfg.Scheduler = SchedulerConfig{
		MinCombinationSize: v.GetInt("SCHEDULER_MIN_COMBINATION_SIZE"),
		MaxCombinationSize: v.GetInt("SCHEDULER_MAX_COMBINATION_SIZE"),
		MinCredits:         v.GetInt("SCHEDULER_MIN_CREDITS"),
		MaxCredits:         v.GetInt("SCHEDULER_MAX_CREDITS"),
		Workers:            v.GetInt("SCHEDULER_WORKERS"),
		Timeout:            parseDuration(v.GetString("SCHEDULER_TIMEOUT"), 10*time.Second),
		ConflictPolicy:     v.GetString("SCHEDULER_CONFLICT_POLICY"),
		MaxSelectedCourses: v.GetInt("SCHEDULER_MAX_SELECTED_COURSES"),
		CacheEnabled:       v.GetBool("ENABLE_SCHEDULE_CACHE"),
		CacheTTL:           parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled:  v.GetBool("ENABLE_EXPORTS"),
		PDFTitle: v.GetString("EXPORT_PDF_TITLE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tessera")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	v.SetDefault("SCHEDULER_MIN_COMBINATION_SIZE", 2)
	v.SetDefault("SCHEDULER_MAX_COMBINATION_SIZE", 5)
	v.SetDefault("SCHEDULER_MIN_CREDITS", 12)
	v.SetDefault("SCHEDULER_MAX_CREDITS", 18)
	v.SetDefault("SCHEDULER_WORKERS", 0)
	v.SetDefault("SCHEDULER_TIMEOUT", "10s")
	v.SetDefault("SCHEDULER_CONFLICT_POLICY", "exact")
	v.SetDefault("SCHEDULER_MAX_SELECTED_COURSES", 32)
	v.SetDefault("ENABLE_SCHEDULE_CACHE", false)
	v.SetDefault("SCHEDULER_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_PDF_TITLE", "Weekly schedule")
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
