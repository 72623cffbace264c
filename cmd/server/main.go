package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monster-clicker/internal/config"
	"monster-clicker/internal/content"
	"monster-clicker/internal/handler"
	"monster-clicker/internal/messaging"
	"monster-clicker/internal/random"
	"monster-clicker/internal/repository/memory"
	"monster-clicker/internal/service"
	"monster-clicker/internal/worker"
	pgdatabase "monster-clicker/pkg/database"
	"monster-clicker/pkg/migration"
	"monster-clicker/shared/authutils"
	"monster-clicker/shared/database"
	"monster-clicker/shared/interfaces"
	sharedLogger "monster-clicker/shared/logger"
	sharedMiddleware "monster-clicker/shared/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

const (
	dbConnectAttempts   = 30
	rabbitConnectTries  = 30
	rabbitRetryDelay    = 3 * time.Second
	redisLockKeyPrefix  = "monster-clicker:"
	shutdownGracePeriod = 10 * time.Second
)

// storage - набор репозиториев выбранного драйвера.
type storage struct {
	tx       interfaces.Transactor
	sessions interfaces.BattleSessionRepository
	monsters interfaces.MonsterRepository
	stats    interfaces.PlayerStatsRepository
	outbox   interfaces.OutboxRepository
	close    func()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	logger.Info("Configuration loaded", cfg.LogFields()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables, err := content.Load(cfg.ContentFile, logger)
	if err != nil {
		logger.Fatal("Failed to load content tables", zap.Error(err))
	}

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up storage", zap.Error(err))
	}
	defer store.close()

	redisClient := setupRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close Redis client", zap.Error(err))
			}
		}()
	}
	locker := newLocker(redisClient, logger)

	publisher, closePublisher := setupPublisher(ctx, cfg, logger)
	defer closePublisher()

	rng, err := random.NewFromEntropy()
	if err != nil {
		logger.Fatal("Failed to seed random source", zap.Error(err))
	}

	battleService := service.NewBattleService(service.Dependencies{
		Tx:           store.tx,
		Sessions:     store.sessions,
		Monsters:     store.monsters,
		Stats:        store.stats,
		Outbox:       store.outbox,
		Locker:       locker,
		Content:      tables,
		RNG:          rng,
		StartLockTTL: cfg.StartLockTTL,
		Logger:       logger,
	})

	relay := worker.NewOutboxRelay(store.tx, store.outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize, logger)
	relay.Start(ctx)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT verifier", zap.Error(err))
	}

	router := newRouter(cfg, logger)
	authMiddleware := sharedMiddleware.GinAuthMiddleware(verifier.VerifyToken, cfg.AuthCookieName, logger)
	rateLimiter := handler.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, logger)
	handler.NewBattleHandler(battleService, logger).RegisterRoutes(router, authMiddleware, rateLimiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	relay.Stop()

	logger.Info("Server exiting")
}

func newRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if !cfg.IsProduction() {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(sharedMiddleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", sharedMiddleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Регистрирует /metrics и middleware с метриками запросов
	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	return router
}

func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		mem := memory.NewStore()
		return &storage{
			tx:       mem,
			sessions: mem.Sessions(),
			monsters: mem.Monsters(),
			stats:    mem.PlayerStats(),
			outbox:   mem.Outbox(),
			close:    func() {},
		}, nil
	}

	pool, err := pgdatabase.NewPool(ctx, cfg.Database(), dbConnectAttempts, logger)
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &storage{
		tx:       database.NewTransactionHelper(pool, logger),
		sessions: database.NewPgBattleSessionRepository(pool, logger),
		monsters: database.NewPgMonsterRepository(pool, logger),
		stats:    database.NewPgPlayerStatsRepository(pool, logger),
		outbox:   database.NewPgOutboxRepository(pool, logger),
		close:    pool.Close,
	}, nil
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrator := migration.NewMigrator(migration.Config{
		MigrationsFS:   database.MigrationsFS,
		MigrationsPath: database.MigrationsPath,
	}, pool)
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// setupRedis возвращает nil, если REDIS_ADDR не задан.
func setupRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, start lock and rate limits stay in process")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Уникальный индекс активной сессии остается последней защитой
		logger.Warn("Redis ping failed, start lock will degrade until it recovers",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	}
	return client
}

// newLocker возвращает redis-блокировку старта или блокировку в памяти процесса.
func newLocker(client *redis.Client, logger *zap.Logger) interfaces.Locker {
	if client == nil {
		return memory.NewLocker()
	}
	return database.NewRedisLocker(client, redisLockKeyPrefix, logger)
}

// setupPublisher подключается к RabbitMQ. Без RABBITMQ_URL события только логируются.
func setupPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (messaging.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, ledger events will only be logged")
		return messaging.NewLogPublisher(logger), func() {}
	}

	conn, err := connectRabbitMQ(ctx, cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	publisher, err := messaging.NewRabbitMQPublisher(conn, cfg.LedgerEventsQueue, logger)
	if err != nil {
		_ = conn.Close()
		logger.Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ channel", zap.Error(err))
		}
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ connection", zap.Error(err))
		}
	}
}

func connectRabbitMQ(ctx context.Context, rawURL string, logger *zap.Logger) (*amqp.Connection, error) {
	logger.Info("Attempting to connect to RabbitMQ",
		zap.String("url", maskURL(rawURL)),
		zap.Int("max_retries", rabbitConnectTries),
		zap.Duration("retry_delay", rabbitRetryDelay))

	var lastErr error
	for attempt := 1; attempt <= rabbitConnectTries; attempt++ {
		conn, err := amqp.Dial(rawURL)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ", zap.Int("attempt", attempt))
			go func() {
				notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))
				if err := <-notifyClose; err != nil {
					logger.Error("RabbitMQ connection closed unexpectedly", zap.Error(err))
				}
			}()
			return conn, nil
		}
		lastErr = err
		logger.Warn("RabbitMQ connection failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rabbitRetryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", rabbitConnectTries, lastErr)
}

func maskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	return u.Redacted()
}
