// Package main runs the SocialPizza HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Talts01/SocialPizza/config"
	"github.com/Talts01/SocialPizza/internal/admin"
	"github.com/Talts01/SocialPizza/internal/auth"
	"github.com/Talts01/SocialPizza/internal/events"
	"github.com/Talts01/SocialPizza/internal/middleware"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/internal/resources"
	"github.com/Talts01/SocialPizza/pkg/database"
	"github.com/Talts01/SocialPizza/pkg/queue"
	"github.com/Talts01/SocialPizza/pkg/redis"
	"github.com/Talts01/SocialPizza/pkg/response"
	"github.com/Talts01/SocialPizza/pkg/utils"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	tokens := auth.NewTokenService(cfg.Session.Secret, cfg.Session.TTLHours)
	sessions := auth.NewSessionStore(rdb.Client, tokens.TTL())
	jobQueue := queue.NewQueue(rdb.Client, logger)

	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, tokens, sessions, cfg.Session, logger)

	if err := seedAdmin(ctx, authRepo, cfg.Admin, logger); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}

	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, jobQueue, cfg.Events.OwnerAutoApprove, logger)

	resourceRepo := resources.NewRepository(pool)
	resourceHandler := resources.NewHandler(resourceRepo)

	adminRepo := admin.NewRepository(pool)
	adminHandler := admin.NewHandler(adminRepo, authRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/session", authHandler.Session)
	}

	res := router.Group("/api/resources")
	{
		res.GET("/cities", resourceHandler.Cities)
		res.GET("/categories", resourceHandler.Categories)
		res.GET("/restaurants", resourceHandler.Restaurants)
	}

	router.GET("/api/events/approved", eventHandler.Approved)

	api := router.Group("/api")
	api.Use(middleware.Session(cfg.Session.CookieName, tokens, sessions, authRepo))
	{
		ev := api.Group("/events")
		{
			ev.POST("", eventHandler.Create)
			ev.GET("/public", eventHandler.Public)
			ev.GET("/joined", eventHandler.Joined)
			ev.GET("/created", eventHandler.Mine)
			ev.GET("/pending/for-restaurateur",
				middleware.RequireRole(models.RoleRestaurateur), eventHandler.PendingForOwner)
			ev.GET("/approved/for-restaurateur",
				middleware.RequireRole(models.RoleRestaurateur), eventHandler.ApprovedForOwner)

			ev.POST("/:id/join", eventHandler.Join)
			ev.DELETE("/:id/leave", eventHandler.Leave)
			ev.DELETE("/:id/withdraw", eventHandler.Withdraw)
			ev.GET("/:id/participants", eventHandler.Participants)
			ev.GET("/:id/is-participating", eventHandler.IsParticipating)

			ev.PATCH("/:id/decision",
				middleware.RequireRole(models.RoleRestaurateur), eventHandler.Decision)
			ev.DELETE("/:id/cancel",
				middleware.RequireRole(models.RoleRestaurateur), eventHandler.Cancel)
			ev.DELETE("/:id",
				middleware.RequireRole(models.RoleAdmin), eventHandler.Delete)
		}

		adm := api.Group("/admin")
		adm.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adm.GET("/users", adminHandler.ListUsers)
			adm.POST("/users", adminHandler.CreateUser)
			adm.PATCH("/users/:id/ban", adminHandler.Ban)
			adm.PATCH("/users/:id/unban", adminHandler.Unban)
			adm.PATCH("/users/:id/role", adminHandler.SetRole)

			adm.POST("/restaurants", adminHandler.CreateRestaurant)
			adm.DELETE("/restaurants/:id", adminHandler.DeleteRestaurant)
			adm.POST("/categories", adminHandler.CreateCategory)
			adm.DELETE("/categories/:id", adminHandler.DeleteCategory)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// seedAdmin creates the initial administrator account when configured
// and not present yet.
func seedAdmin(ctx context.Context, repo *auth.Repository, cfg config.AdminConfig, logger *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	if _, err := repo.GetByEmail(ctx, cfg.Email); err == nil {
		return nil
	}
	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	if _, err := repo.Create(ctx, cfg.Email, hash, "Admin", "", models.RoleAdmin); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return nil
		}
		return err
	}
	logger.Info("admin account seeded", zap.String("email", cfg.Email))
	return nil
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
