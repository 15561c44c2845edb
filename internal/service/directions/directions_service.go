package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"navigator/internal/logger"
	"navigator/internal/model"
	"navigator/internal/redis"
	"navigator/internal/util"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

var (
	// ErrNoRoute means the provider answered but had no route between the endpoints.
	ErrNoRoute = errors.New("no route found")
	// ErrDirectionsUnavailable wraps transport failures, bad statuses and unreadable responses.
	ErrDirectionsUnavailable = errors.New("directions service unavailable")
)

// Provider is the part of *maps.Client the service needs
type Provider interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// Cache stores raw provider results between identical requests
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type cachedRoute struct {
	Polyline        string  `json:"polyline"`
	Summary         string  `json:"summary"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type DirectionsService struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
}

// NewDirectionsService creates the service. cache may be nil.
func NewDirectionsService(provider Provider, cache Cache, cacheTTL time.Duration) *DirectionsService {
	return &DirectionsService{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Fetch asks the provider for a route and decodes its overview polyline
func (s *DirectionsService) Fetch(ctx context.Context, origin, destination model.Coordinate, mode model.TravelMode) (*model.Route, error) {
	if mode == "" {
		mode = model.TravelModeDriving
	}
	key := cacheKey(origin, destination, mode)

	if cached, ok := s.fromCache(ctx, key); ok {
		if points, err := util.DecodePolyline(cached.Polyline); err == nil {
			return newRoute(origin, destination, mode, cached, points), nil
		}
	}

	fetched, err := s.fetch(ctx, origin, destination, mode)
	if err != nil {
		return nil, err
	}

	points, err := util.DecodePolyline(fetched.Polyline)
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}
	s.toCache(ctx, key, fetched)

	return newRoute(origin, destination, mode, fetched, points), nil
}

func newRoute(origin, destination model.Coordinate, mode model.TravelMode, result *cachedRoute, points [][2]float64) *model.Route {
	distance := result.DistanceMeters
	if distance == 0 {
		distance = util.PathLength(points)
	}

	return &model.Route{
		ID:              util.ShortUUID(),
		Origin:          origin,
		Destination:     destination,
		Mode:            mode,
		Polyline:        result.Polyline,
		Summary:         result.Summary,
		DistanceMeters:  distance,
		DurationSeconds: result.DurationSeconds,
		CreatedAt:       time.Now().UTC(),
		Points:          points,
	}
}

func (s *DirectionsService) fetch(ctx context.Context, origin, destination model.Coordinate, mode model.TravelMode) (*cachedRoute, error) {
	req := &maps.DirectionsRequest{
		Origin:      origin.String(),
		Destination: destination.String(),
		Mode:        maps.Mode(mode),
	}

	routes, _, err := s.provider.Directions(ctx, req)
	if err != nil {
		if isNoRouteStatus(err) {
			return nil, fmt.Errorf("%w: %s to %s", ErrNoRoute, origin, destination)
		}
		logger.L().Error("Directions request failed",
			zap.Stringer("origin", origin), zap.Stringer("destination", destination), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDirectionsUnavailable, err)
	}
	if len(routes) == 0 || routes[0].OverviewPolyline.Points == "" {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoRoute, origin, destination)
	}

	route := routes[0]
	result := &cachedRoute{
		Polyline: route.OverviewPolyline.Points,
		Summary:  route.Summary,
	}
	for _, leg := range route.Legs {
		if leg == nil {
			continue
		}
		result.DistanceMeters += float64(leg.Distance.Meters)
		result.DurationSeconds += leg.Duration.Seconds()
	}
	return result, nil
}

// isNoRouteStatus recognises the statuses the directions API uses for "no route"
func isNoRouteStatus(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ZERO_RESULTS") || strings.Contains(msg, "NOT_FOUND")
}

func (s *DirectionsService) fromCache(ctx context.Context, key string) (*cachedRoute, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			logger.L().Warn("Failed to read cached directions", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var cached cachedRoute
	if err := json.Unmarshal(data, &cached); err != nil || cached.Polyline == "" {
		return nil, false
	}
	return &cached, true
}

func (s *DirectionsService) toCache(ctx context.Context, key string, cached *cachedRoute) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logger.L().Warn("Failed to cache directions", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(origin, destination model.Coordinate, mode model.TravelMode) string {
	return fmt.Sprintf("%s:%.5f,%.5f:%.5f,%.5f", mode,
		origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
}
