package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server binary needs from the environment.
type Config struct {
	Addr        string
	LogFormat   string // "text" or "json"
	PostgresURL string

	Directory DirectoryConfig
	Redis     RedisConfig
	Audit     AuditConfig

	JWTSigningKey string
}

// DirectoryConfig points the matcher at the external flight-activity
// directory.
type DirectoryConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	LiveCacheTTL time.Duration
}

// RedisConfig configures the optional live-snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig configures the outbox publisher. Empty brokers disable the
// Kafka worker; audit events then stay in the outbox table.
type AuditConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        envOr("VATOUR_ADDR", ":8080"),
		LogFormat:   envOr("VATOUR_LOG_FORMAT", "text"),
		PostgresURL: os.Getenv("VATOUR_POSTGRES_URL"),
		Directory: DirectoryConfig{
			BaseURL:      envOr("DIRECTORY_BASE_URL", "https://api.ivao.aero/v2"),
			APIKey:       os.Getenv("DIRECTORY_API_KEY"),
			Timeout:      envDuration("DIRECTORY_TIMEOUT", 10*time.Second),
			LiveCacheTTL: envDuration("DIRECTORY_LIVE_CACHE_TTL", 15*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("VATOUR_REDIS_URL"),
			PoolSize:     envInt("VATOUR_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VATOUR_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("VATOUR_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("VATOUR_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("VATOUR_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			Brokers: splitList(os.Getenv("AUDIT_KAFKA_BROKERS")),
			Topic:   envOr("AUDIT_KAFKA_TOPIC", "vatour.audit"),
		},
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
