//go:build integration
// +build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"navigator/internal/model"
)

func TestRouteRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("DB_URL")
	if url == "" {
		t.Skip("DB_URL not set")
	}

	db, err := Init(url)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	repo := NewRouteRepository(db)
	ctx := context.Background()
	route := &model.Route{
		ID:          "integration-route",
		Origin:      model.Coordinate{Latitude: 38.5, Longitude: -120.2},
		Destination: model.Coordinate{Latitude: 43.252, Longitude: -126.453},
		Mode:        model.TravelModeDriving,
		Polyline:    "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
		CreatedAt:   time.Now().UTC(),
	}

	// Saving twice exercises the upsert path
	for i := 0; i < 2; i++ {
		if err := repo.SaveRoutes(ctx, []*model.Route{route}); err != nil {
			t.Fatalf("SaveRoutes: %v", err)
		}
	}

	routes, err := repo.LoadRoutes(ctx)
	if err != nil {
		t.Fatalf("LoadRoutes: %v", err)
	}
	for _, r := range routes {
		if r.ID == route.ID {
			if len(r.Points) != 3 {
				t.Fatalf("loaded route has %d points; want 3", len(r.Points))
			}
			return
		}
	}
	t.Fatalf("route %s not found after save", route.ID)
}
