package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lalaji/replenish/internal/api"
	"github.com/lalaji/replenish/internal/cache"
	"github.com/lalaji/replenish/internal/config"
	"github.com/lalaji/replenish/internal/repository"
	"github.com/lalaji/replenish/internal/repository/memory"
	"github.com/lalaji/replenish/internal/repository/postgres"
	"github.com/lalaji/replenish/internal/service"
	"github.com/lalaji/replenish/internal/simulation"
	"github.com/lalaji/replenish/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	products, orders, stores, closeDB := buildRepositories(cfg)
	defer closeDB()

	statsCache, err := cache.NewStatsCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Stats cache unavailable, falling back to no-op")
		statsCache = cache.NewNoopStatsCache()
	}

	loader := simulation.NewLoader(products, orders)
	engine := simulation.NewEngine(demandEstimator(cfg.Simulation.DemandModel), nil)
	applier := simulation.NewApplier(products)

	services := &api.Services{
		SimulationService: service.NewSimulationService(
			loader, engine, applier, stores, statsCache,
			cfg.Simulation.LookbackDays, cfg.Simulation.AutoApply,
		),
		ReportService:    service.NewReportService(products, orders, stores, statsCache),
		InventoryService: service.NewInventoryService(products, stores, statsCache),
		OrderService:     service.NewOrderService(products, orders, statsCache),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildRepositories selects the storage backend from DB_DRIVER. The "memory"
// driver runs the server against a seeded in-process store, which is enough
// for demos and local development without Postgres.
func demandEstimator(model string) simulation.DemandEstimator {
	if model == "historical" {
		return simulation.HistoricalEstimator{}
	}
	return simulation.NewHeuristicEstimator()
}

func buildRepositories(cfg *config.Config) (repository.ProductRepository, repository.OrderRepository, repository.StoreRepository, func()) {
	if cfg.Database.Driver == "memory" {
		store := memory.NewSeeded()
		logger.Log.Info().Msg("Using seeded in-memory storage")
		return store, store, store, func() {}
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	return postgres.NewProductRepository(db),
		postgres.NewOrderRepository(db),
		postgres.NewStoreRepository(db),
		func() { db.Close() }
}
