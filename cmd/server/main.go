/*
main.go - HTTP server entry point

PURPOSE:
  Starts the timesheet API. Handles configuration, dependency injection,
  and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (file + TIMESHEET_* environment)
  2. Build the zap logger
  3. Open the SQLite store
  4. Wire engine -> service -> handler -> router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file (default: ./timesheet.toml if present)
  -port    Overrides server.port
  -db      Overrides db.path, ":memory:" for a throwaway database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

SEE ALSO:
  - config/config.go: Settings and defaults
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/timesheet/api"
	"github.com/warp/timesheet/config"
	"github.com/warp/timesheet/logging"
	"github.com/warp/timesheet/store/sqlite"
	"github.com/warp/timesheet/timesheet"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts, err := cfg.Scheduler.Options()
	if err != nil {
		logger.Fatal("invalid scheduler options", zap.Error(err))
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	engine := timesheet.NewEngine(opts, logger)
	engine.Strict = cfg.Scheduler.Strict
	svc := timesheet.NewService(engine, store, logger)
	router := api.NewRouter(api.NewHandler(svc, logger), cfg.Server.AllowOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("db", cfg.Database.Path),
			zap.String("calendar", cfg.Scheduler.Calendar))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
