package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/resh-o/agora/internal/config"
	"github.com/resh-o/agora/internal/session"
	"github.com/resh-o/agora/internal/storage"
	"github.com/resh-o/agora/web/handlers"
)

func main() {
	port := flag.Int("port", 0, "Server port (default from config)")
	cfgPath := flag.String("config", "", "Config file path (default: ~/.agora/config.yaml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *cfgPath != "" {
		cfg, err = config.LoadFrom(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if *debug || cfg.Debug {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	var store storage.Store
	switch cfg.Storage.Backend {
	case "sqlite":
		slog.Info("Initializing storage", "backend", "sqlite", "path", cfg.Storage.DBPath)
		store, err = storage.NewSQLiteStore(cfg.Storage.DBPath)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
	default:
		slog.Info("Initializing storage", "backend", "json", "dir", cfg.Storage.SessionsDir)
		store = storage.NewFileStore(cfg.Storage.SessionsDir, logger)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	manager := session.NewManager(cfg.SessionTimeoutDuration(), logger)
	h := handlers.New(store, manager, logger)

	if *port == 0 {
		*port = cfg.Server.Port
	}
	addr := fmt.Sprintf(":%d", *port)
	server := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	slog.Info("Starting agora API server", "url", fmt.Sprintf("http://localhost%s", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
