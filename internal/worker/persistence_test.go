package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type fakeFlusher struct {
	sessions   atomic.Int32
	routes     atomic.Int32
	sessionErr error
	routeErr   error
}

func (f *fakeFlusher) SaveDirtySessions(ctx context.Context) error {
	f.sessions.Add(1)
	return f.sessionErr
}

func (f *fakeFlusher) SaveNewRoutes(ctx context.Context) error {
	f.routes.Add(1)
	return f.routeErr
}

func TestFlushAll(t *testing.T) {
	f := &fakeFlusher{}
	if err := FlushAll(context.Background(), f); err != nil {
		t.Fatalf("FlushAll returned error: %v", err)
	}
	if f.sessions.Load() != 1 || f.routes.Load() != 1 {
		t.Fatalf("calls = %d sessions, %d routes; want 1 each", f.sessions.Load(), f.routes.Load())
	}
}

func TestFlushAllJoinsErrors(t *testing.T) {
	redisDown := errors.New("redis down")
	pgDown := errors.New("postgres down")
	f := &fakeFlusher{sessionErr: redisDown, routeErr: pgDown}

	err := FlushAll(context.Background(), f)
	if !errors.Is(err, redisDown) || !errors.Is(err, pgDown) {
		t.Fatalf("FlushAll error = %v; want both failures", err)
	}
}
