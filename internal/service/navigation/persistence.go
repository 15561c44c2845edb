package navigation

import (
	"context"
	"fmt"
	"time"

	"navigator/internal/logger"
	"navigator/internal/model"

	"go.uber.org/zap"
)

// SessionRepository persists session snapshots
type SessionRepository interface {
	SaveSessions(ctx context.Context, sessions []*model.Session) error
	LoadSessions(ctx context.Context) ([]*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// RouteRepository persists planned routes
type RouteRepository interface {
	SaveRoutes(ctx context.Context, routes []*model.Route) error
	LoadRoutes(ctx context.Context) ([]*model.Route, error)
}

// InitService loads stored sessions and the routes they reference
func (s *NavigationService) InitService(ctx context.Context) error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()

	if s.initialized {
		return nil
	}

	startTime := time.Now()
	log := logger.L()
	log.Info("Initializing NavigationService...")

	var sessions []*model.Session
	if s.sessionRepo != nil {
		var err error
		sessions, err = s.sessionRepo.LoadSessions(ctx)
		if err != nil {
			return fmt.Errorf("failed to load sessions from Redis: %w", err)
		}
	}

	referenced := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		if session.RouteID != "" {
			referenced[session.RouteID] = true
		}
	}

	loadedRoutes := 0
	if s.routeRepo != nil && len(referenced) > 0 {
		routes, err := s.routeRepo.LoadRoutes(ctx)
		if err != nil {
			return fmt.Errorf("failed to load routes from PostgreSQL: %w", err)
		}
		for _, route := range routes {
			if referenced[route.ID] {
				s.plans.Load(route.ID, newPlannedRoute(route))
				loadedRoutes++
			}
		}
	}

	for _, session := range sessions {
		if session.RouteID != "" {
			if _, ok := s.plans.Get(session.RouteID); !ok {
				session.RouteID = ""
			}
		}
		s.sessions.Load(session.ID, session)
	}

	log.Info("Initialization complete",
		zap.Int("sessions", len(sessions)),
		zap.Int("routes", loadedRoutes),
		zap.Duration("took", time.Since(startTime)))

	s.initialized = true
	return nil
}

// SaveDirtySessions writes sessions changed since the last save
func (s *NavigationService) SaveDirtySessions(ctx context.Context) error {
	if s.sessionRepo == nil {
		return nil
	}

	savedAt := time.Now()
	dirty := s.sessions.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	keys := make([]string, 0, len(dirty))
	sessions := make([]*model.Session, 0, len(dirty))
	for id, session := range dirty {
		keys = append(keys, id)
		sessions = append(sessions, session)
	}

	if err := s.sessionRepo.SaveSessions(ctx, sessions); err != nil {
		return err
	}

	// Clear flags only after successful save
	s.sessions.ClearDirty(keys, savedAt)
	logger.L().Debug("Saved sessions to Redis", zap.Int("count", len(sessions)))
	return nil
}

// SaveNewRoutes writes routes planned since the last save
func (s *NavigationService) SaveNewRoutes(ctx context.Context) error {
	if s.routeRepo == nil {
		return nil
	}

	savedAt := time.Now()
	dirty := s.plans.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	keys := make([]string, 0, len(dirty))
	routes := make([]*model.Route, 0, len(dirty))
	for id, plan := range dirty {
		keys = append(keys, id)
		routes = append(routes, plan.route)
	}

	if err := s.routeRepo.SaveRoutes(ctx, routes); err != nil {
		return err
	}

	s.plans.ClearDirty(keys, savedAt)
	logger.L().Debug("Saved routes to PostgreSQL", zap.Int("count", len(routes)))
	return nil
}

// Stats are the in-memory counts reported by the info endpoint
type Stats struct {
	Sessions int `json:"sessions"`
	Planned  int `json:"planned"`
	Routes   int `json:"routes"`
}

// Stats reports in-memory counts. Planned counts sessions with a current route.
func (s *NavigationService) Stats() Stats {
	stats := Stats{Routes: s.plans.Count()}
	s.sessions.ForEach(func(_ string, session *model.Session) bool {
		stats.Sessions++
		if session.RouteID != "" {
			stats.Planned++
		}
		return true
	})
	return stats
}
