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

	"github.com/yourorg/moving-portal/internal/config"
	"github.com/yourorg/moving-portal/internal/handler"
	"github.com/yourorg/moving-portal/internal/kafka"
	"github.com/yourorg/moving-portal/internal/middleware"
	"github.com/yourorg/moving-portal/internal/realtime"
	"github.com/yourorg/moving-portal/internal/repository"
	"github.com/yourorg/moving-portal/internal/service"
	"github.com/yourorg/moving-portal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
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

	// Initialize Redis client (if enabled)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logger.Warn("Failed to connect to Redis, running without rate limiting", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Connected to Redis", zap.String("address", cfg.Redis.URL))
		}
	}

	// Initialize Kafka producer (if enabled)
	var publisher service.EventPublisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID, logger)
		publisher = producer
		logger.Info("Initialized Kafka producer", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// Initialize document blob storage
	blobs, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db, logger)
	onboardingRepo := repository.NewOnboardingRepository(db, logger)
	clientRepo := repository.NewClientRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	moveRepo := repository.NewMoveRepository(db, logger)
	quoteRepo := repository.NewQuoteRepository(db, logger)
	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	documentRepo := repository.NewDocumentRepository(db, logger)
	feedbackRepo := repository.NewFeedbackRepository(db, logger)
	outboxRepo := repository.NewOutboxRepository(db, logger)

	// Create services
	authService := service.NewAuthService(userRepo, onboardingRepo, clientRepo, &cfg.Auth, logger)
	clientService := service.NewClientService(clientRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, publisher, cfg.Kafka.Topics["notifications"], logger)
	moveService := service.NewMoveService(moveRepo, clientRepo, publisher, cfg.Kafka.Topics["moves"], logger)
	quoteService := service.NewQuoteService(quoteRepo, clientRepo, publisher, cfg.Kafka.Topics["moves"], logger)
	invoiceService := service.NewInvoiceService(invoiceRepo, moveRepo, logger)
	documentService := service.NewDocumentService(documentRepo, moveRepo, blobs, clientRepo, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, moveRepo, clientRepo, logger)

	// Realtime hub and outbox poller
	hub := realtime.NewHub(logger)
	poller := realtime.NewPoller(outboxRepo, hub, cfg.Realtime.PollInterval, cfg.Realtime.BatchSize, logger)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	go poller.Run(pollerCtx)

	// Create HTTP server
	router := setupRouter(
		cfg,
		authService,
		clientService,
		notificationService,
		moveService,
		quoteService,
		invoiceService,
		documentService,
		feedbackService,
		hub,
		redisClient,
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

	stopPoller()

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("Failed to close Kafka producer", zap.Error(err))
		}
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
	cfg *config.Config,
	authService *service.AuthService,
	clientService *service.ClientService,
	notificationService *service.NotificationService,
	moveService *service.MoveService,
	quoteService *service.QuoteService,
	invoiceService *service.InvoiceService,
	documentService *service.DocumentService,
	feedbackService *service.FeedbackService,
	hub *realtime.Hub,
	redisClient *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	handler.RegisterValidations()

	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "sessions": hub.SessionCount()})
	})

	// Locally stored documents are served straight from disk
	if cfg.Storage.Type == "local" {
		router.Static("/files", cfg.Storage.Local.BasePath)
	}

	// Realtime endpoint authenticates inside the SockJS session
	realtimeHandler := handler.NewRealtimeHandler(hub, authService, logger)
	router.Any("/api/v1/realtime", realtimeHandler.Handle)
	router.Any("/api/v1/realtime/*path", realtimeHandler.Handle)

	// API routes
	v1 := router.Group("/api/v1")
	{
		// ==================== AUTH ROUTES ====================
		auth := v1.Group("/auth")
		{
			authHandler := handler.NewAuthHandler(authService, logger)

			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh-token", authHandler.Refresh)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(authService, logger))
			authProtected.POST("/logout", authHandler.Logout)
		}

		// ==================== CLIENT PORTAL ROUTES ====================
		portal := v1.Group("")
		{
			portal.Use(middleware.AuthMiddleware(authService, logger))
			portal.Use(middleware.RequireClient())

			clientHandler := handler.NewClientHandler(clientService, logger)
			notifHandler := handler.NewNotificationHandler(notificationService, logger)
			moveHandler := handler.NewMoveHandler(moveService, invoiceService, logger)
			quoteHandler := handler.NewQuoteHandler(quoteService, logger)
			invoiceHandler := handler.NewInvoiceHandler(invoiceService, logger)
			documentHandler := handler.NewDocumentHandler(documentService, logger)
			feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)

			portal.GET("/me/profile", clientHandler.GetProfile)
			portal.PATCH("/me/profile", clientHandler.UpdateProfile)
			portal.GET("/me/activity", clientHandler.ListActivity)
			portal.GET("/services", clientHandler.ListServices)

			portal.GET("/notifications", notifHandler.ListNotifications)
			portal.GET("/notifications/count", notifHandler.GetUnreadCount)
			portal.PUT("/notifications/:id/read", notifHandler.MarkAsRead)
			portal.POST("/notifications/mark-all-read", notifHandler.MarkAllAsRead)

			portal.GET("/moves", moveHandler.ListMoves)
			portal.GET("/moves/:id", moveHandler.GetMove)
			portal.GET("/moves/:id/invoices", moveHandler.ListMoveInvoices)
			portal.POST("/moves/:id/feedback", feedbackHandler.SubmitFeedback)
			portal.POST("/quote-requests", moveHandler.RequestQuote)

			portal.GET("/quotes", quoteHandler.ListQuotes)
			portal.GET("/quotes/:id", quoteHandler.GetQuote)
			portal.POST("/quotes/:id/approve", quoteHandler.ApproveQuote)

			portal.GET("/invoices", invoiceHandler.ListInvoices)

			portal.GET("/documents", documentHandler.ListDocuments)
			portal.POST("/documents", documentHandler.UploadDocument)
			portal.DELETE("/documents/:id", documentHandler.DeleteDocument)
		}

		// ==================== ADMIN ROUTES ====================
		admin := v1.Group("/admin")
		{
			admin.Use(middleware.AuthMiddleware(authService, logger))
			admin.Use(middleware.RequireRole("admin"))

			notifHandler := handler.NewNotificationHandler(notificationService, logger)

			admin.POST("/notifications", notifHandler.CreateNotification)
		}
	}

	return router
}
