package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

var (
	cfg     Config
	store   *LeadStore
	pricing PricingTable
	logger  *zap.Logger
)

// Run resolves the launch configuration and starts the service. The master
// process binds the listener, seeds the database if asked, and forks the
// workers; a worker process inherits the listener and serves the application.
func Run() {
	cfg = LoadConfig()

	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if isWorker() {
		runWorker()
		return
	}
	runMaster()
}

// runWorker serves the leads API on the listener inherited from the master
// until told to stop.
func runWorker() {
	var err error
	store, err = OpenLeadStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening lead store", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer store.Close()

	pricing = loadPricing(cfg.PricingJSON)

	ln, err := workerListener()
	if err != nil {
		logger.Fatal("inheriting listener", zap.Error(err))
	}

	srv := &http.Server{Handler: newRouter()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serving", zap.Error(err))
		}
	}()
	logger.Info("worker serving",
		zap.Int("pid", os.Getpid()),
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.Version),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutting down", zap.Error(err))
	}
}

// newRouter wires the HTTP surface. Globals (cfg, store, pricing, logger)
// must be initialized first.
func newRouter() http.Handler {
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}
	if cfg.CORSAllowAll {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(opts))

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	r.Get("/__whoami", handleWhoami)
	r.Get("/pricing", handlePricing)
	r.Get("/meta/lead-types", handleLeadTypes)
	r.Get("/leads", handleLeadSample)
	r.Post("/leads/search", handleLeadsSearch)
	return r
}
