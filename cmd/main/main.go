package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"navigator/internal/api"
	routes "navigator/internal/api/handlers"
	"navigator/internal/config"
	"navigator/internal/logger"
	"navigator/internal/postgres"
	"navigator/internal/redis"
	"navigator/internal/service/directions"
	"navigator/internal/service/location"
	"navigator/internal/service/navigation"
	"navigator/internal/service/place"
	"navigator/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Init(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := initializeDatabaseAndCache(cfg); err != nil {
		l.Fatal("Failed to connect", zap.Error(err))
	}
	defer closeConnections()

	mapsClient, err := newMapsClient(cfg)
	if err != nil {
		l.Fatal("Failed to create maps client", zap.Error(err))
	}

	navigationService, placeService := initializeServices(ctx, cfg, mapsClient)

	worker.StartAllWorkers(ctx, navigationService)

	runAPIServer(ctx, cfg, navigationService, placeService)

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := worker.FlushAll(flushCtx, navigationService); err != nil {
		l.Error("Final flush failed", zap.Error(err))
	}
}

func initializeDatabaseAndCache(cfg config.Config) error {
	// Initialize PostgreSQL
	if _, err := postgres.Init(cfg.DBUrl); err != nil {
		return err
	}

	// Initialize Redis
	if _, err := redis.Init(cfg.RedisUrl); err != nil {
		return err
	}
	return nil
}

func newMapsClient(cfg config.Config) (*maps.Client, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.MapsAPIKey)}
	if cfg.MapsBaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.MapsBaseURL))
	}
	return maps.NewClient(opts...)
}

func initializeServices(ctx context.Context, cfg config.Config, mapsClient *maps.Client) (*navigation.NavigationService, *place.PlaceService) {
	directionsCache := redis.NewCache(redis.GetClient(), "directions:")
	directionsService := directions.NewDirectionsService(mapsClient, directionsCache, cfg.DirectionsCacheTTL)
	locationService := location.NewLocationService(mapsClient, cfg.LocationTimeout, cfg.LocationMaxAge)
	placeService := place.NewPlaceService(mapsClient)

	navigationService := navigation.NewNavigationService(navigation.Dependencies{
		Routes:      directionsService,
		Locator:     locationService,
		Places:      placeService,
		SessionRepo: redis.NewSessionRepository(redis.GetClient()),
		RouteRepo:   postgres.NewRouteRepository(postgres.GetDB()),
	})

	// Load data from Redis and PostgreSQL
	if err := navigationService.InitService(ctx); err != nil {
		logger.L().Fatal("Failed to initialize navigation service", zap.Error(err))
	}

	return navigationService, placeService
}

func runAPIServer(ctx context.Context, cfg config.Config, navigationService *navigation.NavigationService, placeService *place.PlaceService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	info := map[string]string{
		"service": "navigator",
		"env":     cfg.Env,
		"port":    cfg.Port,
	}
	api.SetupRouter(r, info, routes.Services{
		Navigation: navigationService,
		Places:     placeService,
	})

	srv := &http.Server{Addr: cfg.Port, Handler: r}
	go func() {
		logger.L().Info("API server listening", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("API server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("Shutdown signal received, stopping API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("API server shutdown failed", zap.Error(err))
	}
}

func closeConnections() {
	if err := postgres.Close(); err != nil {
		logger.L().Error("Error closing PostgreSQL connection", zap.Error(err))
	}

	if err := redis.Close(); err != nil {
		logger.L().Error("Error closing Redis connection", zap.Error(err))
	}

	logger.L().Info("PostgreSQL and Redis connections closed")
}
