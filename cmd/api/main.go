package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitsim/lucky-draw-backend/api/routes"
	"github.com/bitsim/lucky-draw-backend/internal/config"
	"github.com/bitsim/lucky-draw-backend/internal/handlers"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	mongorepo "github.com/bitsim/lucky-draw-backend/internal/repositories/mongodb"
	"github.com/bitsim/lucky-draw-backend/internal/services"
	"github.com/bitsim/lucky-draw-backend/pkg/mongodb"
	"github.com/bitsim/lucky-draw-backend/pkg/redislock"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongoClient.EnsureIndexes(context.Background(), db); err != nil {
		slog.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	// The settlement lock is advisory; run without it if Redis is down.
	var locker services.SettleLocker
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Redis unavailable, settlement relies on store guard only", "addr", cfg.Redis.Addr, "error", err)
	} else {
		locker = redislock.New(rdb)
		defer rdb.Close()
	}

	// Repositories
	var eventRepo repositories.EventRepository = mongorepo.NewEventRepository(db)
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var activityRepo repositories.ActivityRepository = mongorepo.NewActivityRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)
	var tokenRepo repositories.DeviceTokenRepository = mongorepo.NewDeviceTokenRepository(db)

	// Services. Clock and RNG are injected so the engines stay deterministic
	// under test.
	now := time.Now
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	winnerService := services.NewWinnerService(eventRepo, locker, now, rng)
	registrationService := services.NewRegistrationService(eventRepo, userRepo, now)
	quizService := services.NewQuizService(activityRepo, userRepo, now)
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo)
	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(adminRepo, cfg)
	notificationService := services.NewNotificationService(tokenRepo)

	if err := authService.EnsureSeedAdmin(context.Background()); err != nil {
		slog.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		UserHandler:         handlers.NewUserHandler(userService),
		EventHandler:        handlers.NewEventHandler(eventService, winnerService, registrationService),
		ActivityHandler:     handlers.NewActivityHandler(activityService, quizService),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
