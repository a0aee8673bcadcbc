// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	Environment    string   `yaml:"environment"`
	DatabaseURL    string   `yaml:"database_url"`
	PublicSiteURL  string   `yaml:"public_site_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	JWT         JWTConfig         `yaml:"jwt"`
	Admin       AdminConfig       `yaml:"admin"`
	S3          S3Settings        `yaml:"s3"`
	Redis       RedisConfig       `yaml:"redis"`
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// AdminConfig is the bootstrap account created at startup when no user with that email exists.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type S3Settings struct {
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	PublicBaseURL string `yaml:"public_base_url"`
	Endpoint      string `yaml:"endpoint"`
}

type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
	Index  string `yaml:"index"`
}

type SchedulerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ReindexCron string `yaml:"reindex_cron"`
}

// RateLimitConfig applies per client IP to the engagement counter endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file or env override is present.
func DefaultConfig() *Config {
	return &Config{
		Port:           "8080",
		Environment:    "development",
		PublicSiteURL:  "http://localhost:3000",
		AllowedOrigins: []string{"http://localhost:3000"},
		JWT: JWTConfig{
			TTL: 12 * time.Hour,
		},
		S3: S3Settings{
			Region: "ap-northeast-2",
		},
		Redis: RedisConfig{
			SnapshotTTL: 5 * time.Minute,
		},
		Meilisearch: MeilisearchConfig{
			Index: "ads",
		},
		Scheduler: SchedulerConfig{
			Enabled:     true,
			ReindexCron: "0 3 * * *",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads defaults, then the YAML file at CONFIG_PATH if it exists, then env overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// LoadFile overlays a YAML file on DefaultConfig. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.PublicSiteURL = getEnv("PUBLIC_SITE_URL", cfg.PublicSiteURL)
	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.TTL = getEnvDuration("JWT_TTL", cfg.JWT.TTL)

	cfg.Admin.Email = getEnv("ADMIN_EMAIL", cfg.Admin.Email)
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", cfg.Admin.Password)
	cfg.Admin.Name = getEnv("ADMIN_NAME", cfg.Admin.Name)

	cfg.S3.Region = getEnv("AWS_REGION", cfg.S3.Region)
	cfg.S3.Bucket = getEnv("S3_BUCKET_NAME", cfg.S3.Bucket)
	cfg.S3.PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", cfg.S3.PublicBaseURL)
	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.SnapshotTTL = getEnvDuration("SNAPSHOT_TTL", cfg.Redis.SnapshotTTL)

	cfg.Meilisearch.Host = getEnv("MEILISEARCH_HOST", cfg.Meilisearch.Host)
	cfg.Meilisearch.APIKey = getEnv("MEILISEARCH_API_KEY", cfg.Meilisearch.APIKey)
	cfg.Meilisearch.Index = getEnv("MEILISEARCH_INDEX", cfg.Meilisearch.Index)

	cfg.Scheduler.ReindexCron = getEnv("REINDEX_CRON", cfg.Scheduler.ReindexCron)
	if v, ok := os.LookupEnv("SCHEDULER_ENABLED"); ok {
		cfg.Scheduler.Enabled = v == "true" || v == "1"
	}

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
}

func databaseURLFromParts() string {
	host := getEnv("PSQL_HOST", "localhost")
	port := getEnv("PSQL_PORT", "5432")
	user := getEnv("PSQL_USER", "postgres")
	password := getEnv("PSQL_PASSWORD", "postgres")
	dbName := getEnv("PSQL_DB_NAME", "adboard")

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   host + ":" + port,
		Path:   dbName,
	}
	q := u.Query()
	q.Set("sslmode", getEnv("PSQL_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
