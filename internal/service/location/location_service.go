package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"navigator/internal/logger"
	"navigator/internal/model"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

var (
	// ErrLocationTimeout means no position arrived before the lookup timeout.
	ErrLocationTimeout = errors.New("location request timed out")
	// ErrLocationUnavailable covers every other lookup failure.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Geolocator is the part of *maps.Client the service needs
type Geolocator interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// LocationService performs single-shot position lookups.
// A fix younger than maxAge is returned without a new lookup.
type LocationService struct {
	geolocator Geolocator
	timeout    time.Duration
	maxAge     time.Duration
	now        func() time.Time

	mu     sync.Mutex
	last   model.Coordinate
	lastAt time.Time
}

func NewLocationService(geolocator Geolocator, timeout, maxAge time.Duration) *LocationService {
	return &LocationService{
		geolocator: geolocator,
		timeout:    timeout,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Locate returns the current position or ErrLocationTimeout / ErrLocationUnavailable
func (s *LocationService) Locate(ctx context.Context) (model.Coordinate, error) {
	if c, ok := s.cached(); ok {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.geolocator.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.L().Warn("Location request timed out", zap.Duration("timeout", s.timeout))
			return model.Coordinate{}, fmt.Errorf("%w after %v", ErrLocationTimeout, s.timeout)
		}
		logger.L().Error("Error getting current location", zap.Error(err))
		return model.Coordinate{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}
	if result == nil {
		return model.Coordinate{}, fmt.Errorf("%w: empty geolocation result", ErrLocationUnavailable)
	}

	c := model.Coordinate{Latitude: result.Location.Lat, Longitude: result.Location.Lng}
	s.mu.Lock()
	s.last, s.lastAt = c, s.now()
	s.mu.Unlock()
	return c, nil
}

func (s *LocationService) cached() (model.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastAt.IsZero() || s.now().Sub(s.lastAt) > s.maxAge {
		return model.Coordinate{}, false
	}
	return s.last, true
}
