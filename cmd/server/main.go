package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/anragu/poolpal/internal/api"
	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/config"
	"github.com/anragu/poolpal/internal/middleware"
	"github.com/anragu/poolpal/internal/realtime"
	"github.com/anragu/poolpal/internal/service"
	"github.com/anragu/poolpal/internal/storage/sqlite"
	"github.com/anragu/poolpal/pkg/logging"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DatabasePath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	if cfg.RedisAddr != "" {
		bridge, err := realtime.NewRedisBridge(hub, cfg.RedisAddr, "poolpal:events")
		if err != nil {
			slog.Error("failed to connect redis bridge", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer bridge.Close()
		go func() {
			if err := bridge.Run(ctx); err != nil {
				slog.Error("redis bridge stopped", "error", err)
			}
		}()
		slog.Info("redis bridge connected", "addr", cfg.RedisAddr)
	}

	passwords := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewTokenIssuer(store, auth.LogMailer{})
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTDuration)

	svc := api.Services{
		Accounts: service.NewAccountService(store, passwords, tokens, jwtManager, hub),
		Friends:  service.NewFriendService(store, hub),
		Pools:    service.NewPoolService(store, hub),
		Chats:    service.NewChatService(store, hub),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	middleware.RegisterSubscriberGauge(reg, hub.SubscriberCount)

	router := api.NewRouter(svc, jwtManager, store, hub, reg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		figure.NewColorFigure("PoolPal", "puffy", "green", true).Print()
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	shutdownCtx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}
