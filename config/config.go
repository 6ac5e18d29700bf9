package config

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// DefaultJWTSecret is only accepted when APP_ENV=development.
const DefaultJWTSecret = "changeme"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env         string
	HTTPAddr    string
	MetricsAddr string

	StorageDriver string
	DB            DatabaseConfig

	RedisAddr      string
	StatusCacheTTL time.Duration

	KafkaBroker     string
	KafkaOrderTopic string
	KafkaGroupID    string

	JWTSecret string
	JWTTTL    time.Duration

	TransitionPolicy string
	PublicBaseURL    string
	AllowedOrigins   []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// DSN returns a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host + " port=" + d.Port + " user=" + d.User +
		" password=" + d.Password + " dbname=" + d.Name + " sslmode=disable"
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env:           getEnv("APP_ENV", "production"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8081"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9102"),
		StorageDriver: getEnv("STORAGE_DRIVER", StoragePostgres),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "food_ordering"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		KafkaOrderTopic:  getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "tracker-svc"),
		JWTSecret:        getEnv("JWT_SECRET", DefaultJWTSecret),
		TransitionPolicy: getEnv("ORDER_TRANSITION_POLICY", "strict"),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8081"), "/"),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.RedisAddr = host + ":" + getEnv("REDIS_PORT", "6379")
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StatusCacheTTL, err = getDuration("STATUS_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver)
	}
	switch c.TransitionPolicy {
	case "strict", "permissive":
	default:
		return fmt.Errorf("ORDER_TRANSITION_POLICY must be strict or permissive, got %q", c.TransitionPolicy)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWTSecret == DefaultJWTSecret && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET must be set outside development")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func MustInitPostgres(cfg DatabaseConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err = db.Ping(); err != nil {
		slog.Error("Failed to ping database", "host", cfg.Host, "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "addr", addr, "error", err)
		os.Exit(1)
	}

	return client
}

func NewKafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	// bare integers are seconds
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return time.Duration(secs) * time.Second, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
