package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("interaction-service")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.App.Name != "interaction-service" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Aggregation.FetchLimit != 1000 {
		t.Errorf("FetchLimit = %d, want 1000", cfg.Aggregation.FetchLimit)
	}
	if cfg.Aggregation.DefaultPageSize != 20 || cfg.Aggregation.MaxPageSize != 100 {
		t.Errorf("page sizes = %d/%d, want 20/100", cfg.Aggregation.DefaultPageSize, cfg.Aggregation.MaxPageSize)
	}
	if cfg.Aggregation.LikeCountCacheTTL != 5*time.Minute {
		t.Errorf("LikeCountCacheTTL = %v, want 5m", cfg.Aggregation.LikeCountCacheTTL)
	}
	if cfg.Kafka.LikeTopic != "like-events" {
		t.Errorf("LikeTopic = %q", cfg.Kafka.LikeTopic)
	}
	if cfg.Database.PostgreSQL.DBName != "interaction_service" {
		t.Errorf("DBName = %q", cfg.Database.PostgreSQL.DBName)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("AGGREGATION_FETCH_LIMIT", "50")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig("interaction-service")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Redis.Addr != "redis:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Aggregation.FetchLimit != 50 {
		t.Errorf("FetchLimit = %d, want 50", cfg.Aggregation.FetchLimit)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Brokers = %v", cfg.Kafka.Brokers)
	}
}
