package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"navigator/internal/logger"
	"navigator/internal/model"
	"navigator/internal/service/storage"
	"navigator/internal/util"

	"go.uber.org/zap"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrEndpointsMissing  = errors.New("origin and destination must both be set")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrInvalidMode       = errors.New("unsupported travel mode")
	ErrNoActiveRoute     = errors.New("no route planned")
)

// RouteFetcher plans a route between two coordinates
type RouteFetcher interface {
	Fetch(ctx context.Context, origin, destination model.Coordinate, mode model.TravelMode) (*model.Route, error)
}

// Locator returns the current device position
type Locator interface {
	Locate(ctx context.Context) (model.Coordinate, error)
}

// PlaceResolver turns a selected autocomplete place into a coordinate
type PlaceResolver interface {
	Resolve(ctx context.Context, placeID string) (model.Coordinate, error)
}

// Dependencies of the navigation service. The repositories may be nil,
// in which case nothing is persisted.
type Dependencies struct {
	Routes      RouteFetcher
	Locator     Locator
	Places      PlaceResolver
	SessionRepo SessionRepository
	RouteRepo   RouteRepository
}

// NavigationService keeps navigation sessions and re-plans their route
// whenever an endpoint changes.
type NavigationService struct {
	routes  RouteFetcher
	locator Locator
	places  PlaceResolver

	sessionRepo SessionRepository
	routeRepo   RouteRepository

	sessions storage.Storage[string, *model.Session]
	plans    storage.Storage[string, *plannedRoute]
	locks    sync.Map // session id -> *sync.Mutex

	initialized bool
	initMutex   sync.Mutex
}

func NewNavigationService(deps Dependencies) *NavigationService {
	return &NavigationService{
		routes:      deps.Routes,
		locator:     deps.Locator,
		places:      deps.Places,
		sessionRepo: deps.SessionRepo,
		routeRepo:   deps.RouteRepo,
		sessions:    storage.NewShardedMemoryStorage[string, *model.Session](16, nil),
		plans:       storage.NewMemoryStorage[string, *plannedRoute](),
	}
}

// CreateSession starts a session centered on the default region
func (s *NavigationService) CreateSession(mode model.TravelMode) (*model.Session, error) {
	if mode == "" {
		mode = model.TravelModeDriving
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:        util.ShortUUID(),
		Region:    model.DefaultRegion(),
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions.Set(session.ID, session)

	logger.L().Info("Session created", zap.String("session", session.ID), zap.String("mode", string(mode)))
	return session, nil
}

// GetSession returns a snapshot of the session
func (s *NavigationService) GetSession(id string) (*model.Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// DeleteSession forgets the session and its snapshot
func (s *NavigationService) DeleteSession(ctx context.Context, id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, ok := s.sessions.Get(id)
	s.locks.Delete(id)
	if !ok || !s.sessions.Delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.dropRoute(session.RouteID)

	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteSession(ctx, id); err != nil {
			logger.L().Warn("Failed to delete session snapshot", zap.String("session", id), zap.Error(err))
		}
	}
	return nil
}

// Route returns the session's current route
func (s *NavigationService) Route(id string) (*model.Route, error) {
	plan, err := s.activePlan(id)
	if err != nil {
		return nil, err
	}
	return plan.route, nil
}

// SetOrigin sets the start point and re-plans when the destination is known
func (s *NavigationService) SetOrigin(ctx context.Context, id string, origin model.Coordinate) (*model.Session, error) {
	if !origin.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, origin)
	}
	return s.update(ctx, id, false, func(session *model.Session) {
		session.Origin = &origin
	})
}

// SetDestination sets the end point, recenters the map on it and
// re-plans when the origin is known
func (s *NavigationService) SetDestination(ctx context.Context, id string, destination model.Coordinate) (*model.Session, error) {
	if !destination.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, destination)
	}
	return s.update(ctx, id, false, func(session *model.Session) {
		session.Destination = &destination
		session.Region = model.RegionAt(destination)
	})
}

// SetOriginFromPlace resolves an autocomplete selection and uses it as origin
func (s *NavigationService) SetOriginFromPlace(ctx context.Context, id, placeID string) (*model.Session, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	origin, err := s.places.Resolve(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return s.SetOrigin(ctx, id, origin)
}

// SetDestinationFromPlace resolves an autocomplete selection and uses it as destination
func (s *NavigationService) SetDestinationFromPlace(ctx context.Context, id, placeID string) (*model.Session, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	destination, err := s.places.Resolve(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return s.SetDestination(ctx, id, destination)
}

// UseCurrentLocation looks up the device position, moves the map there
// and makes it the origin
func (s *NavigationService) UseCurrentLocation(ctx context.Context, id string) (*model.Session, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	position, err := s.locator.Locate(ctx)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, false, func(session *model.Session) {
		session.Origin = &position
		session.Region = session.Region.MoveTo(position)
	})
}

// PlanRoute fetches directions for the current endpoints
func (s *NavigationService) PlanRoute(ctx context.Context, id string) (*model.Session, error) {
	return s.update(ctx, id, true, func(*model.Session) {})
}

// update applies change to a copy of the session under the session lock,
// re-plans when both endpoints are set and stores the result. The session
// is stored even when planning fails, with the failure in LastError.
func (s *NavigationService) update(ctx context.Context, id string, requireEndpoints bool, change func(*model.Session)) (*model.Session, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, ok := s.sessions.Get(id)
	if !ok {
		s.locks.Delete(id)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next := current.Clone()
	change(next)
	next.UpdatedAt = time.Now().UTC()

	if !next.Ready() {
		if requireEndpoints {
			return nil, ErrEndpointsMissing
		}
		s.sessions.Set(id, next)
		return next, nil
	}

	route, err := s.routes.Fetch(ctx, *next.Origin, *next.Destination, next.Mode)
	if _, ok := s.sessions.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		logger.L().Warn("Error fetching route", zap.String("session", id), zap.Error(err))
		next.RouteID = ""
		next.LastError = err.Error()
		s.sessions.Set(id, next)
		s.dropRoute(current.RouteID)
		return next, err
	}

	s.plans.Set(route.ID, newPlannedRoute(route))
	next.RouteID = route.ID
	next.LastError = ""
	s.sessions.Set(id, next)
	if current.RouteID != route.ID {
		s.dropRoute(current.RouteID)
	}

	logger.L().Info("Route planned",
		zap.String("session", id),
		zap.String("route", route.ID),
		zap.Int("points", len(route.Points)),
		zap.Float64("distance_m", route.DistanceMeters))
	return next, nil
}

// dropRoute forgets a route that no session points at any more. Only the
// current route of a session is ever read, so an unsaved replaced route is
// not written to PostgreSQL either.
func (s *NavigationService) dropRoute(routeID string) {
	if routeID != "" {
		s.plans.Delete(routeID)
	}
}

func (s *NavigationService) lockFor(id string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *NavigationService) activePlan(id string) (*plannedRoute, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session.RouteID == "" {
		return nil, ErrNoActiveRoute
	}
	plan, ok := s.plans.Get(session.RouteID)
	if !ok {
		return nil, fmt.Errorf("%w: route %s is not loaded", ErrNoActiveRoute, session.RouteID)
	}
	return plan, nil
}
