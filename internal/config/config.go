// Package config loads the battle service configuration from the environment
// and Docker secrets.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"monster-clicker/pkg/database"
	"monster-clicker/shared/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config содержит конфигурацию сервиса боев.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	Port        string `envconfig:"SERVER_PORT" default:"8080"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER"`
	DBName        string        `envconfig:"DB_NAME"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Секретное поле без envconfig тега
	DBPassword string `ignored:"true"`

	// Redis: пустой адрес - блокировка старта в памяти процесса
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `ignored:"true"`

	// RabbitMQ: пустой URL - события только логируются
	RabbitMQURL        string        `envconfig:"RABBITMQ_URL"`
	LedgerEventsQueue  string        `envconfig:"LEDGER_EVENTS_QUEUE" default:"battle_ledger_events"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`

	ContentFile        string        `envconfig:"CONTENT_FILE"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	AuthCookieName     string        `envconfig:"AUTH_COOKIE_NAME" default:"token"`
	StartLockTTL       time.Duration `envconfig:"START_LOCK_TTL" default:"5s"`
	RateLimitPerMinute uint          `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	JWTSecret string `ignored:"true"`
}

// LoadConfig загружает .env (если есть), переменные окружения и секреты.
func LoadConfig() (*Config, error) {
	// .env нужен только для локального запуска
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	var err error
	cfg.JWTSecret, err = utils.ReadSecret("jwt_secret")
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver == StoragePostgres {
		cfg.DBPassword, err = utils.ReadSecret("db_password")
		if err != nil {
			return nil, err
		}
	}
	if cfg.RedisAddr != "" {
		cfg.RedisPassword, err = utils.ReadOptionalSecret("redis_password")
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.OutboxPollInterval <= 0 {
		errs = append(errs, errors.New("OUTBOX_POLL_INTERVAL must be positive"))
	}
	if c.RateLimitPerMinute == 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}
	if c.StartLockTTL <= 0 {
		errs = append(errs, errors.New("START_LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Database возвращает настройки пула PostgreSQL.
func (c *Config) Database() database.Config {
	return database.Config{
		Host:        c.DBHost,
		Port:        c.DBPort,
		User:        c.DBUser,
		Password:    c.DBPassword,
		DBName:      c.DBName,
		SSLMode:     c.DBSSLMode,
		MaxConns:    c.DBMaxConns,
		MaxIdleTime: c.DBIdleTimeout,
	}
}

// IsProduction сообщает, запущен ли сервис в production-окружении.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LogFields возвращает конфигурацию без секретов для стартового лога.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("env", c.Env),
		zap.String("port", c.Port),
		zap.String("logLevel", c.LogLevel),
		zap.String("storageDriver", c.StorageDriver),
		zap.String("dbDSN", fmt.Sprintf("postgres://%s:***@%s:%s/%s?sslmode=%s", c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)),
		zap.Int("dbMaxConns", c.DBMaxConns),
		zap.Duration("dbIdleTimeout", c.DBIdleTimeout),
		zap.String("redisAddr", c.RedisAddr),
		zap.Bool("rabbitMQConfigured", c.RabbitMQURL != ""),
		zap.String("ledgerEventsQueue", c.LedgerEventsQueue),
		zap.Duration("outboxPollInterval", c.OutboxPollInterval),
		zap.Int("outboxBatchSize", c.OutboxBatchSize),
		zap.String("contentFile", c.ContentFile),
		zap.Strings("corsAllowedOrigins", c.CORSAllowedOrigins),
		zap.Duration("startLockTTL", c.StartLockTTL),
		zap.Uint("rateLimitPerMinute", c.RateLimitPerMinute),
	}
}
