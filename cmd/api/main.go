package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-mgmt-go/pkg/api"
	"user-mgmt-go/pkg/api/handlers"
	"user-mgmt-go/pkg/auth"
	"user-mgmt-go/pkg/captcha"
	"user-mgmt-go/pkg/config"
	"user-mgmt-go/pkg/db"
	"user-mgmt-go/pkg/notify"
	"user-mgmt-go/pkg/services"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Auth.JWTSecret == config.DefaultConfig().Auth.JWTSecret {
		logger.Warn("using the default JWT secret; set auth.jwt_secret or JWT_SECRET")
	}

	ctx := context.Background()
	checks := map[string]handlers.HealthChecker{}

	// Initialize user storage
	var store db.Store
	if cfg.Database.URL != "" {
		database, err := db.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return err
		}
		store = database
		logger.Info("using postgres user store")
	} else {
		store = db.NewMemoryStore()
		logger.Warn("database.url is empty; users are kept in memory")
	}
	defer store.Close()
	checks["database"] = store

	// Initialize captcha storage
	var codes captcha.Store
	if cfg.Redis.URL != "" {
		redisStore, err := captcha.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisStore.Close()
		codes = redisStore
		checks["redis"] = redisStore
	} else {
		codes = captcha.NewMemoryStore()
	}

	// Code delivery
	var sender captcha.Sender = captcha.NewLogSender(logger)
	if cfg.Captcha.GatewayURL != "" {
		gateway := notify.NewGateway(cfg.Captcha.GatewayURL)
		sender = gateway
		checks["notify"] = gateway
		logger.Info("delivering codes through gateway", slog.String("url", cfg.Captcha.GatewayURL))
	} else {
		logger.Warn("captcha.gateway_url is empty; codes are written to the log")
	}

	limiter := captcha.NewLimiter(cfg.CaptchaSendInterval(), 1)
	captchas := captcha.NewService(codes, limiter, sender, cfg.CaptchaTTL())
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())
	userService := services.NewUserService(store, captchas, tokens, logger)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(userService, tokens, logger, checks)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
