package navigation

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
)

func TestMapViewEmptySession(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeLocator{})
	session, _ := svc.CreateSession("")

	view, err := svc.MapView(session.ID)
	if err != nil {
		t.Fatalf("MapView: %v", err)
	}
	if len(view.Features.Features) != 0 {
		t.Fatalf("empty session has %d features", len(view.Features.Features))
	}
}

func TestMapViewWithRoute(t *testing.T) {
	svc, id := plannedSession(t)

	view, err := svc.MapView(id)
	if err != nil {
		t.Fatalf("MapView: %v", err)
	}

	kinds := map[string]int{}
	for i, f := range view.Features.Features {
		kind, _ := f.Properties["kind"].(string)
		kinds[kind] = i
	}
	if len(kinds) != 3 {
		t.Fatalf("feature kinds = %v; want destination, origin and route", kinds)
	}

	origin := view.Features.Features[kinds["origin"]]
	if origin.Properties["pin_color"] != OriginPinColor {
		t.Errorf("origin pin_color = %v", origin.Properties["pin_color"])
	}
	if p := origin.Geometry.(orb.Point); p.Lon() != -120.2 || p.Lat() != 38.5 {
		t.Errorf("origin point = %v; want [lng, lat] order", p)
	}

	route := view.Features.Features[kinds["route"]]
	line, ok := route.Geometry.(orb.LineString)
	if !ok || len(line) != 3 {
		t.Fatalf("route geometry = %#v", route.Geometry)
	}
	if line[2] != (orb.Point{-126.453, 43.252}) {
		t.Errorf("last route point = %v", line[2])
	}

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal map view: %v", err)
	}
	var decoded struct {
		Region   map[string]float64 `json:"region"`
		Features struct {
			Type string `json:"type"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal map view: %v", err)
	}
	if decoded.Features.Type != "FeatureCollection" || decoded.Region["latitude"] != 43.252 {
		t.Errorf("encoded view = %s", data)
	}
}

func TestMapViewMissingSession(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeLocator{})
	if _, err := svc.MapView("missing"); err == nil {
		t.Fatal("MapView(missing) returned nil error")
	}
}
