package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/gmcandra/mebel-api/internal/auth"
	"github.com/gmcandra/mebel-api/internal/catalog"
	"github.com/gmcandra/mebel-api/internal/config"
	"github.com/gmcandra/mebel-api/internal/database"
	"github.com/gmcandra/mebel-api/internal/email"
	httpServer "github.com/gmcandra/mebel-api/internal/http"
	"github.com/gmcandra/mebel-api/internal/logging"
	"github.com/gmcandra/mebel-api/internal/notify"
	"github.com/gmcandra/mebel-api/internal/order"
	"github.com/gmcandra/mebel-api/internal/payment"
	"github.com/gmcandra/mebel-api/internal/ratelimit"
	"github.com/gmcandra/mebel-api/internal/user"
)

// @title           GM Candra Mebel API
// @version         1.0
// @description     Furniture store backend with authentication, catalog management, checkout and payment reconciliation.

// @contact.name   API Support
// @contact.email  support@gmcandramebel.com

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	passwordResetRepo := auth.NewPasswordResetRepository(redisClient)
	catalogRepo := catalog.NewRepository(db)
	orderRepo := order.NewRepository(db)

	// Initialize rate limiter
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// Initialize PASETO service
	pasetoService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize PASETO service: %w", err)
	}

	// Initialize email service
	emailService := email.NewService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FrontendURL,
	)

	// Initialize payment gateway
	gateway := payment.NewSnapGateway(cfg.Midtrans.ServerKey, cfg.Midtrans.Production)

	// Initialize push notifications; disabled without credentials
	var pusher notify.Pusher = notify.NopPusher{}
	if cfg.Firebase.CredentialsFile != "" {
		fcmPusher, err := notify.NewFCMPusher(context.Background(), cfg.Firebase.CredentialsFile, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize push notifications: %w", err)
		}
		pusher = fcmPusher
	} else {
		logger.Warn("push notifications disabled: no Firebase credentials configured")
	}

	// Initialize services
	authService := auth.NewService(
		userRepo,
		passwordResetRepo,
		pasetoService,
		emailService,
		logger,
		cfg.Auth.SessionTokenDuration,
	)
	orderService := order.NewService(
		orderRepo,
		catalogRepo,
		userRepo,
		gateway,
		pusher,
		logger,
	)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth:    auth.NewHandler(authService, rateLimiter, logger),
		Users:   auth.NewUsersHandler(userRepo, authService, logger),
		Catalog: catalog.NewHandler(catalogRepo, logger),
		Orders:  order.NewHandler(orderService, logger),
	}
	authMiddleware := auth.NewMiddleware(pasetoService)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
