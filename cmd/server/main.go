package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/calvinwijaya/blackjack-be/internal/api"
	"github.com/calvinwijaya/blackjack-be/internal/config"
	"github.com/calvinwijaya/blackjack-be/internal/db"
	"github.com/calvinwijaya/blackjack-be/internal/store"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	// Command line flags override the environment
	var (
		addr        = flag.String("addr", cfg.Addr, "Server address")
		dbPath      = flag.String("db", cfg.DBPath, "Database path")
		frontendURL = flag.String("frontend", cfg.FrontendURL, "Frontend URL for CORS")
		chips       = flag.Int("chips", cfg.StartingChips, "Starting chip balance per session")
		logLevel    = flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	// Create data directory if it doesn't exist
	dataDir := filepath.Dir(*dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logger.Fatal("failed to create data directory", "dir", dataDir, "err", err)
	}

	// Initialize the store
	sessionStore := store.NewMemoryStore()
	logger.Info("in-memory session store initialized")

	// Initialize the database; the server runs without result history if
	// this fails
	database, err := db.NewDatabase(*dbPath)
	if err != nil {
		logger.Warn("failed to initialize database, continuing without result history", "err", err)
		database = nil
	} else {
		logger.Info("database initialized", "path", *dbPath)
		defer database.Close()
	}

	// Initialize WebSocket hub
	hub := api.NewHub(logger.With("component", "hub"))
	go hub.Run()
	logger.Info("websocket hub started")

	// Initialize API handlers
	handlers := api.NewHandlers(sessionStore, database, hub, logger.With("component", "api"), *chips)

	// Set up router
	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	// Add middleware for logging
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "uri", r.RequestURI, "duration", time.Since(start))
		})
	})

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{*frontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Create server
	srv := &http.Server{
		Addr:         *addr,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", "err", err)
		}
	}()

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a termination signal
	<-stop

	logger.Info("shutting down server")
}
