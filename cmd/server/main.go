// Package main runs the pollbox HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pollbox/backend/config"
	"github.com/pollbox/backend/internal/auth"
	"github.com/pollbox/backend/internal/middleware"
	"github.com/pollbox/backend/internal/models"
	"github.com/pollbox/backend/internal/polls"
	"github.com/pollbox/backend/pkg/database"
	"github.com/pollbox/backend/pkg/redis"
	"github.com/pollbox/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Vote rate limiting runs only when Redis is configured.
	var voteLimiter *redis.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis unavailable, vote rate limiting disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			voteLimiter = redis.NewRateLimiter(rdb, "vote", cfg.RateLimit.VoteLimit,
				time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Polls
	pollRepo := polls.NewRepository(pool)
	pollHandler := polls.NewHandler(pollRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public, except the profile lookup)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.GET("/me", middleware.JWT(jwtService), authHandler.Me)
	}

	// Public pages. A valid bearer token elevates admins; everyone else
	// browses anonymously.
	public := router.Group("/questions")
	public.Use(middleware.OptionalJWT(jwtService))
	{
		public.GET("", pollHandler.List)
		public.GET("/:id", pollHandler.Get)
		public.GET("/:id/results", pollHandler.Results)
		public.POST("/:id/vote", middleware.RateLimit(voteLimiter), pollHandler.Vote)
	}

	// Administration (JWT + admin role)
	admin := router.Group("/questions")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("", pollHandler.Create)
		admin.POST("/:id/choices", pollHandler.AddChoice)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
