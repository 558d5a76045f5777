/*
Package main is the entry point for the chat relay server.

It is responsible for loading configuration, initializing the global logging system,
connecting to the database, wiring the chat lifecycle and HTTP routes, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM) to ensure a smooth shutdown.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/app/db"
	"chatrelay/internal/app/storage"
	"chatrelay/internal/app/user"
	"chatrelay/internal/configs"
	"chatrelay/internal/handler"
	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/pow"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("pow_difficulty", cfg.PowDifficulty).
		Dur("persist_timeout", cfg.PersistTimeout).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, db.PoolConfig{
		DSN:      cfg.DatabaseDSN,
		MaxConns: int32(cfg.DatabaseMaxConns),
	})
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	gateway := db.NewGateway(pool)
	verifier := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	provisioner := user.NewProvisioner(verifier, gateway.Queries())

	lifecycle := chat.NewLifecycle(provisioner, gateway, chat.Options{
		PersistTimeout: cfg.PersistTimeout,
	})

	storageService, err := storage.NewStorageService(ctx, storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		S3Region:          cfg.S3Region,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	powManager := pow.NewPoWManager(cfg.PowDifficulty)
	defer powManager.Stop()

	limiters := handler.NewLimiters()
	defer limiters.Stop()

	router := handler.Router(&handler.AppDeps{
		Config:    cfg,
		Lifecycle: lifecycle,
		Verifier:  verifier,
		Users:     provisioner,
		Queries:   gateway.Queries(),
		Groups:    gateway,
		Storage:   storageService,
		Pow:       powManager,
	}, limiters)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
		// uploads stream through the server, so only the header read is bounded
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat relay server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	// Hijacked WebSocket connections are not tracked by the HTTP server; the lifecycle drains them.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "HTTP server shutdown did not complete")
	}

	if err := lifecycle.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Chat connections did not drain before the deadline")
	}

	logx.Info("Server gracefully stopped.")
}
