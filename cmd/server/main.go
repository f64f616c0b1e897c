package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hersh/gotris-pro/internal/config"
	"github.com/hersh/gotris-pro/internal/logging"
	"github.com/hersh/gotris-pro/internal/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $GOTRIS_CONFIG)")
	portFlag := flag.Int("port", 0, "Listen port (overrides config and $PORT)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	port := cfg.Server.Port
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}
	if *portFlag != 0 {
		port = *portFlag
	}

	// The relay has no TUI, so a file-less config logs to stderr.
	if cfg.Log.Path == "" || cfg.Log.Path == config.Default().Log.Path {
		cfg.Log.Path = "stderr"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	hub := server.NewHub(server.Options{
		BroadcastInterval: cfg.Server.BroadcastInterval,
		Logger:            logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: hub.Handler(),
	}

	logger.Info("gotris relay starting",
		zap.Int("port", port),
		zap.String("ws", fmt.Sprintf("ws://localhost:%d/ws", port)))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
