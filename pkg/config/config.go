package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
}

// HTTPConfig HTTP服务配置
type HTTPConfig struct {
	Network string `mapstructure:"network"`
	Addr    string `mapstructure:"addr"`
	Timeout string `mapstructure:"timeout"`

	CorsOrigins []string `mapstructure:"cors_origins"`
}

// GRPCConfig gRPC服务配置
type GRPCConfig struct {
	Network string `mapstructure:"network"`
	Addr    string `mapstructure:"addr"`
	Timeout string `mapstructure:"timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	PostgreSQL PostgreSQLConfig `mapstructure:"postgresql"`
}

// PostgreSQLConfig PostgreSQL配置
type PostgreSQLConfig struct {
	DSN    string `mapstructure:"dsn"`
	DBName string `mapstructure:"db_name"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers   []string `mapstructure:"brokers"`
	GroupID   string   `mapstructure:"group_id"`
	LikeTopic string   `mapstructure:"like_topic"`
	Enabled   bool     `mapstructure:"enabled"`
}

// TelemetryConfig 链路追踪配置
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Environment string  `mapstructure:"environment"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// AggregationConfig 互动聚合配置
type AggregationConfig struct {
	FetchLimit        int           `mapstructure:"fetch_limit"`
	DefaultPageSize   int           `mapstructure:"default_page_size"`
	MaxPageSize       int           `mapstructure:"max_page_size"`
	SourceConcurrency int           `mapstructure:"source_concurrency"`
	EnrichConcurrency int           `mapstructure:"enrich_concurrency"`
	LikeCountCacheTTL time.Duration `mapstructure:"like_count_cache_ttl"`
}

// LoadConfig 加载配置：config.yaml（可选）+ 环境变量 + 默认值
// 环境变量名为配置键的大写形式，点号替换为下划线，例如 REDIS_ADDR、AGGREGATION_FETCH_LIMIT
func LoadConfig(serviceName string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, serviceName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return cfg, nil
}

// setDefaults 设置默认值，AutomaticEnv 只对已知键生效，所以每个键都需要默认值
func setDefaults(v *viper.Viper, serviceName string) {
	v.SetDefault("app.name", serviceName)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "debug")

	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":21008")
	v.SetDefault("server.http.timeout", "30s")
	v.SetDefault("server.http.cors_origins", []string{"*"})
	v.SetDefault("server.grpc.network", "tcp")
	v.SetDefault("server.grpc.addr", ":22008")
	v.SetDefault("server.grpc.timeout", "30s")

	dbName := strings.ReplaceAll(serviceName, "-", "_")
	v.SetDefault("database.postgresql.dsn", "host=localhost user=postgres password=postgres dbname="+dbName+" port=5432 sslmode=disable TimeZone=Asia/Shanghai")
	v.SetDefault("database.postgresql.db_name", dbName)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_id", serviceName+"-group")
	v.SetDefault("kafka.like_topic", "like-events")
	v.SetDefault("kafka.enabled", true)

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("logger.level", "info")

	v.SetDefault("aggregation.fetch_limit", 1000)
	v.SetDefault("aggregation.default_page_size", 20)
	v.SetDefault("aggregation.max_page_size", 100)
	v.SetDefault("aggregation.source_concurrency", 6)
	v.SetDefault("aggregation.enrich_concurrency", 8)
	v.SetDefault("aggregation.like_count_cache_ttl", "5m")
}
