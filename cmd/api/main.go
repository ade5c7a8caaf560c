package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/auth"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/catalog"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/chat"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/config"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/gateway"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/logger"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/metrics"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/statecache"
)

// @title Quotebot API
// @version 1.0
// @description Conversational quoting API for freelance service projects
// @description
// @description This API runs guided slot-filling conversations that collect project
// @description requirements, enforce budget floors, and generate a proposal and roadmap.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewStructured(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize OpenTelemetry
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	// Connect to PostgreSQL with retry logic
	zlog.Info("Connecting to PostgreSQL database...")
	var pool *pgxpool.Pool

	// Add a retry loop for the initial connection
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(context.Background())
			if err == nil {
				break
			}
		}
		zlog.Warn("Waiting for database...", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(3 * time.Second)
	}

	if err != nil {
		log.Fatalf("Failed to connect to database after retries: %v", err)
	}

	defer pool.Close()
	zlog.Info("Connected to PostgreSQL database")

	// Optional Redis snapshot cache; without it every turn replays history
	var cache *statecache.Cache
	if cfg.RedisAddr != "" {
		cache = statecache.New(cfg.RedisAddr, 30*time.Minute)
		if err := cache.Ping(context.Background()); err != nil {
			zlog.Warn("Redis unavailable, continuing without snapshot cache", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
			zlog.Info("Connected to Redis snapshot cache", zap.String("addr", cfg.RedisAddr))
		}
	}

	chatMetrics, err := metrics.NewChatMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Optional LLM assist runtime for free-form conversations
	var assistClient chat.AssistClientInterface
	if cfg.AssistRuntimeURL != "" {
		assistClient = chat.NewAssistClient(cfg.AssistRuntimeURL, zlog)
	}

	// Initialize chat layer
	registry := catalog.NewRegistry()
	store := chat.NewStore(pool)
	chatService := chat.NewService(store, registry, cache, chatMetrics, assistClient, zlog)

	// Initialize JWT manager
	jwtManager, err := auth.NewJWTManager()
	if err != nil {
		log.Fatalf("Failed to initialize JWT manager: %v", err)
	}

	// Initialize gateway layer
	gatewayHandler := gateway.NewHandler(chatService, registry, jwtManager, pool)
	chatSocket := gateway.NewChatSocket(chatService, jwtManager)

	// Setup Gin router
	router := gin.Default()

	// Add structured JSON logging middleware
	router.Use(structuredLoggingMiddleware())

	// Health checks MUST be at the root for the WebService standard
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/ready", func(c *gin.Context) {
		// Check database connectivity for readiness
		if err := pool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  "database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// API routes
	api := router.Group("/api")

	// Public routes (no authentication required)
	api.POST("/auth/login", gatewayHandler.Login)
	api.GET("/services", gatewayHandler.ListServices)

	// Health check (public) - keep for backward compatibility
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Protected routes (require JWT authentication)
	protected := api.Group("")
	protected.Use(auth.RequireAuth(jwtManager))

	// Conversation routes
	protected.POST("/conversations", gatewayHandler.CreateConversation)
	protected.GET("/conversations/:id", gatewayHandler.GetConversation)
	protected.GET("/conversations/:id/messages", gatewayHandler.GetMessages)
	protected.POST("/conversations/:id/messages", gatewayHandler.PostMessage)
	protected.GET("/conversations/:id/proposal", gatewayHandler.GetProposal)

	// WebSocket route (token validated in the handler, query param allowed)
	api.GET("/ws/conversations/:id", chatSocket.Stream)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zlog.Info("Starting Quotebot API server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	zlog.Info("Server exited")
}

// initTracer initializes OpenTelemetry tracing
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}

// structuredLoggingMiddleware provides structured JSON logging for all requests
func structuredLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		// Get user ID from context if available
		userID, _ := c.Get("user_id")

		// Build log entry
		logEntry := map[string]interface{}{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		// Add user ID if authenticated
		if userID != nil {
			logEntry["user_id"] = userID
		}

		// Add error if present
		if len(c.Errors) > 0 {
			logEntry["errors"] = c.Errors.String()
		}

		// Output as JSON
		logJSON, _ := json.Marshal(logEntry)
		log.Println(string(logJSON))
	}
}
