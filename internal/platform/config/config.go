package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. FromEnv keeps main lean; every
// value has a development default so the server starts with nothing set.
type Config struct {
	Addr          string
	DatabaseURL   string
	AdminTokenKey string

	Redis RedisConfig
	Kafka KafkaConfig

	// ReservationURL is the base URL of the external cart service that
	// reports in-progress purchase holds. Empty disables the client and the
	// engine treats every reservation as zero.
	ReservationURL string

	// BalanceCacheTTL bounds staleness for cached balance summaries; writes
	// invalidate eagerly, the TTL is a backstop.
	BalanceCacheTTL time.Duration
}

// RedisConfig holds connection settings for the balance summary cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the trigger-event consumer.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("KUDOS_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("KUDOS_DATABASE_URL"),
		AdminTokenKey:   envOr("KUDOS_ADMIN_TOKEN_KEY", "dev-secret-key-change-in-production"),
		ReservationURL:  os.Getenv("KUDOS_RESERVATION_URL"),
		BalanceCacheTTL: envDurationOr("KUDOS_BALANCE_CACHE_TTL", 5*time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("KUDOS_REDIS_URL"),
			PoolSize:     envIntOr("KUDOS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("KUDOS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDurationOr("KUDOS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("KUDOS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("KUDOS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Topic: envOr("KUDOS_KAFKA_TOPIC", "kudos.triggers"),
			Group: envOr("KUDOS_KAFKA_GROUP", "kudos-award-engine"),
		},
	}
	if brokers := os.Getenv("KUDOS_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitCSV(brokers)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
