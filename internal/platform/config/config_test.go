package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.BalanceCacheTTL)
	assert.Equal(t, "kudos.triggers", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("KUDOS_ADDR", ":9090")
	t.Setenv("KUDOS_DATABASE_URL", "postgres://localhost/kudos")
	t.Setenv("KUDOS_BALANCE_CACHE_TTL", "30s")
	t.Setenv("KUDOS_KAFKA_BROKERS", "one:9092, two:9092 ,")
	t.Setenv("KUDOS_REDIS_POOL_SIZE", "25")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/kudos", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.BalanceCacheTTL)
	assert.Equal(t, []string{"one:9092", "two:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("KUDOS_BALANCE_CACHE_TTL", "soon")
	t.Setenv("KUDOS_REDIS_POOL_SIZE", "many")

	cfg := FromEnv()

	assert.Equal(t, 5*time.Minute, cfg.BalanceCacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
