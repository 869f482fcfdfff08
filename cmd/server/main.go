/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Flexitime Engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment, flags override)
  2. Initialize SQLite store
  3. Load the status rule configuration
  4. Wire engine, handler and router
  5. Start the materialize scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    Listen address (default from FLEXITIME_ADDR, ":8080")
  -db      SQLite database path (default from FLEXITIME_DB)
           Use ":memory:" for an in-memory database
  -rules   Status rule config JSON path (default: built-in rules)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/flexitime.db"

  # Run with custom statuses
  ./server -rules="./statuses.json"

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/flexitime-engine/api"
	"github.com/warp/flexitime-engine/config"
	"github.com/warp/flexitime-engine/factory"
	"github.com/warp/flexitime-engine/flexitime"
	"github.com/warp/flexitime-engine/store/sqlite"
)

func main() {
	cfg := config.Get()

	// Flags override the environment
	addr := flag.String("addr", cfg.Addr, "listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	rulesPath := flag.String("rules", cfg.RulesPath, "status rule config JSON (empty = built-in)")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer store.Close()

	// Status rules
	rules := factory.DefaultRuleSet()
	if *rulesPath != "" {
		rules, err = factory.LoadRuleSetFile(*rulesPath)
		if err != nil {
			log.Fatalf("failed to load rule config: %v", err)
		}
	}

	// Wire engine and handler
	engine := flexitime.NewEngine(store, store, store, rules, log)
	handler := api.NewHandler(engine, store, store, store, log)
	router := api.NewRouter(handler)

	// Keep record spans current in the background
	scheduler := api.NewMaterializeScheduler(engine, store, log)
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("server starting on %s", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}
