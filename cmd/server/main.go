package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/config"
	"github.com/yourorg/library-service/internal/dispatch"
	"github.com/yourorg/library-service/internal/handler"
	"github.com/yourorg/library-service/internal/middleware"
	"github.com/yourorg/library-service/internal/repository"
	"github.com/yourorg/library-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis client (if enabled); it backs session revocation
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		_, err = redisClient.Ping(context.Background()).Result()
		if err != nil {
			logger.Warn("Failed to connect to Redis, logout revocation disabled", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Connected to Redis", zap.String("address", cfg.Redis.URL))
		}
	}

	// Initialize Kafka writer for overdue-notice dispatch (if enabled)
	var kafkaWriter *kafka.Writer
	if cfg.Dispatch.Enabled && len(cfg.Dispatch.Brokers) > 0 {
		kafkaWriter = &kafka.Writer{
			Addr:     kafka.TCP(cfg.Dispatch.Brokers...),
			Topic:    cfg.Dispatch.Topic,
			Balancer: &kafka.LeastBytes{},
		}
		logger.Info("Initialized overdue-notice writer", zap.Strings("brokers", cfg.Dispatch.Brokers))
	}

	// Create repositories
	bookRepo := repository.NewBookRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)
	loanRepo := repository.NewLoanRepository(db, logger)
	adminRepo := repository.NewAdminRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)

	// Create services
	dispatcher := dispatch.NewDispatcher(kafkaWriter, logger)
	bookService := service.NewBookService(bookRepo, logger)
	customerService := service.NewCustomerService(customerRepo, loanRepo, logger)
	loanService := service.NewLoanService(loanRepo, customerRepo, bookRepo, dispatcher, cfg.Library, logger)
	authService := service.NewAuthService(adminRepo, redisClient, cfg, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)

	// Create HTTP server
	router := setupRouter(
		bookService,
		customerService,
		loanService,
		authService,
		notificationService,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close Kafka writer if initialized
	if kafkaWriter != nil {
		kafkaWriter.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToDB(dbConfig config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	bookService *service.BookService,
	customerService *service.CustomerService,
	loanService *service.LoanService,
	authService *service.AuthService,
	notificationService *service.NotificationService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Liveness
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Library Management System!"})
	})

	// ==================== BOOK ROUTES ====================
	bookHandler := handler.NewBookHandler(bookService, logger)
	router.POST("/books", bookHandler.Create)
	router.GET("/books", bookHandler.List)
	router.GET("/books/:id", bookHandler.Get)
	router.PUT("/books/:id", bookHandler.Update)
	router.PATCH("/books/:id/deactivate", bookHandler.Deactivate)

	// ==================== CUSTOMER ROUTES ====================
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	router.POST("/customers", customerHandler.Create)
	router.GET("/customers", customerHandler.List)
	router.GET("/customers/inactive", customerHandler.ListInactive)
	router.GET("/customers/:id", customerHandler.Get)
	router.PUT("/customers/:id", customerHandler.Update)
	router.DELETE("/customers/:id", customerHandler.Deactivate)
	router.PATCH("/customers/:id/activate", customerHandler.Activate)
	router.POST("/customers/bulk_update_status", customerHandler.BulkUpdateStatus)
	router.GET("/customers/:id/loans", customerHandler.ListLoans)

	// ==================== LOAN ROUTES ====================
	loanHandler := handler.NewLoanHandler(loanService, logger)
	router.POST("/loans", loanHandler.Create)
	router.GET("/loans", loanHandler.List)
	router.GET("/loans/overdue", loanHandler.ListOverdue)
	router.GET("/loans/overdue/notify", loanHandler.NotifyOverdue)
	router.GET("/loans/:id", loanHandler.Get)
	router.PUT("/loans/:id", loanHandler.Update)
	router.DELETE("/loans/:id", loanHandler.Delete)

	// ==================== ADMIN & SESSION ROUTES ====================
	authHandler := handler.NewAuthHandler(authService, logger)
	router.POST("/admin", authHandler.CreateAdmin)
	router.POST("/login", authHandler.Login)

	gated := router.Group("")
	gated.Use(middleware.AuthMiddleware(authService, logger))
	gated.GET("/admin/:id", authHandler.GetAdmin)
	gated.PUT("/admin/:id", authHandler.UpdateAdmin)
	gated.DELETE("/admin/:id", authHandler.DeleteAdmin)
	gated.POST("/logout", authHandler.Logout)

	// ==================== NOTIFICATION ROUTES ====================
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	router.POST("/notifications", notificationHandler.Create)
	router.GET("/notifications", notificationHandler.List)
	router.GET("/notifications/:id", notificationHandler.Get)
	router.PUT("/notifications/:id", notificationHandler.Update)
	router.DELETE("/notifications/:id", notificationHandler.Delete)
	router.PATCH("/update_notification_status/:id", notificationHandler.MarkRead)

	return router
}
