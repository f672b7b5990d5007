package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/range.report/internal/api"
	"github.com/banshee-data/range.report/internal/config"
	"github.com/banshee-data/range.report/internal/db"
	"github.com/banshee-data/range.report/internal/monitor"
	"github.com/banshee-data/range.report/internal/units"
	"github.com/banshee-data/range.report/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON config file")
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "Path to SQLite database (overrides config)")
	unitsFlag  = flag.String("units", "", "Distance units for display, m or ft (overrides config)")
)

// Main
func main() {
	flag.Parse()

	// Load config before anything else so the migrate subcommand and all
	// flag fallbacks see the configured values.
	cfg := config.EmptyServiceConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
		log.Printf("Loaded config from %s", *configPath)
	}

	databasePath := cfg.GetDBPath()
	if *dbPath != "" {
		databasePath = *dbPath
	}

	// `rangereport migrate <action>` manages the schema and exits
	if flag.NArg() > 0 && flag.Arg(0) == "migrate" {
		db.RunMigrateCommand(flag.Args()[1:], databasePath)
		return
	}

	listenAddr := cfg.GetListenAddr()
	if *listen != "" {
		listenAddr = *listen
	}
	if listenAddr == "" {
		log.Fatal("Listen address is required")
	}

	displayUnits := cfg.GetUnits()
	if *unitsFlag != "" {
		displayUnits = *unitsFlag
	}
	if !units.IsValid(displayUnits) {
		log.Fatalf("Invalid units %q (valid: %s)", displayUnits, units.GetValidUnitsString())
	}

	log.Printf("rangereport %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	database, err := db.NewDB(databasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.MigrateUp(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// the banded snapshot shared by the analyze handler and the debug charts
	latest := monitor.NewLatest(nil)

	// Create a wait group for the HTTP server routine
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		// create a new API server instance using the run store and config
		// and mount the API handlers
		mux := api.NewServer(database, latest, cfg, displayUnits).ServeMux()

		monitor.New(latest).AttachDebugRoutes(mux)
		database.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    listenAddr,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Listening on %s", listenAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a shorter timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			// Force close the server if graceful shutdown fails
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
