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

// Registry backends supported by the stored-course registry.
const (
	RegistryBackendFile  = "file"
	RegistryBackendRedis = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Library LibraryConfig
	Rescan  RescanConfig
}

type RedisConfig struct {
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

// LibraryConfig controls where the stored-course registry document lives
// and how long scanned course graphs may be served from cache.
type LibraryConfig struct {
	DataDir         string
	RegistryBackend string
	CacheTTL        time.Duration
}

// RescanConfig tunes the background rescan worker.
type RescanConfig struct {
	QueueSize  int
	RetryDelay time.Duration
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

	cfg.Redis = RedisConfig{
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

	cfg.Library = LibraryConfig{
		DataDir:         v.GetString("LIBRARY_DATA_DIR"),
		RegistryBackend: v.GetString("LIBRARY_REGISTRY_BACKEND"),
		CacheTTL:        parseDuration(v.GetString("LIBRARY_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Rescan = RescanConfig{
		QueueSize:  v.GetInt("RESCAN_QUEUE_SIZE"),
		RetryDelay: parseDuration(v.GetString("RESCAN_RETRY_DELAY"), time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LIBRARY_DATA_DIR", "./data")
	v.SetDefault("LIBRARY_REGISTRY_BACKEND", RegistryBackendFile)
	v.SetDefault("LIBRARY_CACHE_TTL", "5m")

	v.SetDefault("RESCAN_QUEUE_SIZE", 4)
	v.SetDefault("RESCAN_RETRY_DELAY", "1s")
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
