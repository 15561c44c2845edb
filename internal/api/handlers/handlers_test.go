package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"navigator/internal/api"
	routes "navigator/internal/api/handlers"
	"navigator/internal/model"
	"navigator/internal/service/directions"
	"navigator/internal/service/location"
	"navigator/internal/service/navigation"
	"navigator/internal/service/place"
	"navigator/internal/util"

	"github.com/gin-gonic/gin"
)

const canonical = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

// ---- Mock collaborators ----

type mockFetcher struct {
	fetchFn func(ctx context.Context, origin, destination model.Coordinate, mode model.TravelMode) (*model.Route, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, origin, destination model.Coordinate, mode model.TravelMode) (*model.Route, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, origin, destination, mode)
	}
	points, err := util.DecodePolyline(canonical)
	if err != nil {
		return nil, err
	}
	return &model.Route{ID: util.ShortUUID(), Origin: origin, Destination: destination, Mode: mode, Polyline: canonical, Points: points}, nil
}

type mockLocator struct {
	locateFn func(ctx context.Context) (model.Coordinate, error)
}

func (m *mockLocator) Locate(ctx context.Context) (model.Coordinate, error) {
	if m.locateFn != nil {
		return m.locateFn(ctx)
	}
	return model.Coordinate{Latitude: 37.7749, Longitude: -122.4194}, nil
}

type mockPlaces struct{}

func (mockPlaces) Resolve(ctx context.Context, placeID string) (model.Coordinate, error) {
	if placeID == "sac" {
		return model.Coordinate{Latitude: 38.5, Longitude: -120.2}, nil
	}
	return model.Coordinate{}, place.ErrPlaceDetailsMissing
}

func (mockPlaces) Autocomplete(ctx context.Context, input string) ([]place.Prediction, error) {
	if input == "" {
		return nil, place.ErrEmptyInput
	}
	if input == "down" {
		return nil, fmt.Errorf("%w: autocomplete %q: maps: OVER_QUERY_LIMIT", place.ErrPlacesUnavailable, input)
	}
	return []place.Prediction{{PlaceID: "sac", Description: "Sacramento, CA, USA"}}, nil
}

// ---- Helpers ----

func setupApp(fetcher *mockFetcher, locator *mockLocator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	nav := navigation.NewNavigationService(navigation.Dependencies{
		Routes:  fetcher,
		Locator: locator,
		Places:  mockPlaces{},
	})
	r := gin.New()
	api.SetupRouter(r, map[string]string{"service": "navigator", "env": "test"}, routes.Services{
		Navigation: nav,
		Places:     mockPlaces{},
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	code, body := do(t, r, http.MethodPost, "/api/sessions", nil)
	if code != http.StatusCreated {
		t.Fatalf("create session status = %d; body %v", code, body)
	}
	return body["id"].(string)
}

// ---- Tests ----

func TestHealthAndInfo(t *testing.T) {
	r := setupApp(&mockFetcher{}, &mockLocator{})

	code, body := do(t, r, http.MethodGet, "/health", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("GET /health = %d %v", code, body)
	}

	code, body = do(t, r, http.MethodGet, "/", nil)
	if code != http.StatusOK || body["service"] != "navigator" {
		t.Fatalf("GET / = %d %v", code, body)
	}
	stats, ok := body["stats"].(map[string]any)
	if !ok || stats["sessions"] != float64(0) {
		t.Fatalf("GET / stats = %v", body["stats"])
	}
}

func TestDecodeEndpoint(t *testing.T) {
	r := setupApp(&mockFetcher{}, &mockLocator{})

	cases := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantPoints int
		wantCode   string
	}{
		{"canonical", map[string]any{"encoded": canonical}, http.StatusOK, 3, ""},
		{"empty", map[string]any{"encoded": ""}, http.StatusOK, 0, ""},
		{"polyline6", map[string]any{"encoded": "_izlhA~rlgdF_{geC~ywl@", "precision": 6}, http.StatusOK, 2, ""},
		{"truncated", map[string]any{"encoded": "_p~iF~ps|U_"}, http.StatusUnprocessableEntity, 0, "malformed_polyline"},
		{"bad precision", map[string]any{"encoded": canonical, "precision": 7}, http.StatusBadRequest, 0, "invalid_request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := do(t, r, http.MethodPost, "/api/polyline/decode", tc.body)
			if code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %v)", code, tc.wantStatus, body)
			}
			if tc.wantCode != "" {
				if body["code"] != tc.wantCode {
					t.Fatalf("code = %v; want %s", body["code"], tc.wantCode)
				}
				return
			}
			points, ok := body["points"].([]any)
			if !ok || len(points) != tc.wantPoints {
				t.Fatalf("points = %v; want %d points", body["points"], tc.wantPoints)
			}
		})
	}
}

func TestDecodeEndpointMessage(t *testing.T) {
	r := setupApp(&mockFetcher{}, &mockLocator{})

	_, body := do(t, r, http.MethodPost, "/api/polyline/decode", map[string]any{"encoded": "_p~iF"})
	if body["error"] != routes.MsgMalformedPolyline {
		t.Fatalf("error = %v; want %q", body["error"], routes.MsgMalformedPolyline)
	}

	_, body = do(t, r, http.MethodPost, "/api/polyline/decode", map[string]any{"encoded": canonical})
	first := body["points"].([]any)[0].(map[string]any)
	if first["latitude"] != 38.5 || first["longitude"] != -120.2 {
		t.Fatalf("first point = %v", first)
	}
}

func TestSessionFlow(t *testing.T) {
	r := setupApp(&mockFetcher{}, &mockLocator{})
	id := createSession(t, r)

	code, body := do(t, r, http.MethodPost, "/api/sessions/"+id+"/directions", nil)
	if code != http.StatusBadRequest || body["error"] != routes.MsgEndpointsMissing {
		t.Fatalf("directions without endpoints = %d %v", code, body)
	}

	code, body = do(t, r, http.MethodPut, "/api/sessions/"+id+"/origin", map[string]any{"place_id": "sac"})
	if code != http.StatusOK {
		t.Fatalf("set origin = %d %v", code, body)
	}

	code, body = do(t, r, http.MethodPut, "/api/sessions/"+id+"/destination", map[string]any{"latitude": 43.252, "longitude": -126.453})
	if code != http.StatusOK {
		t.Fatalf("set destination = %d %v", code, body)
	}
	if body["route_id"] == nil {
		t.Fatalf("route not planned after both endpoints: %v", body)
	}
	region := body["region"].(map[string]any)
	if region["latitude"] != 43.252 {
		t.Fatalf("region not centered on destination: %v", region)
	}

	code, body = do(t, r, http.MethodPost, "/api/sessions/"+id+"/directions", nil)
	if code != http.StatusOK {
		t.Fatalf("directions = %d %v", code, body)
	}
	if points := body["points"].([]any); len(points) != 3 {
		t.Fatalf("directions points = %v", points)
	}

	code, body = do(t, r, http.MethodGet, "/api/sessions/"+id+"/map", nil)
	if code != http.StatusOK {
		t.Fatalf("map = %d %v", code, body)
	}
	features := body["features"].(map[string]any)["features"].([]any)
	if len(features) != 3 {
		t.Fatalf("map features = %d; want 3", len(features))
	}

	code, body = do(t, r, http.MethodPost, "/api/sessions/"+id+"/progress", map[string]any{"latitude": 43.252, "longitude": -126.453})
	if code != http.StatusOK || body["arrived"] != true {
		t.Fatalf("progress = %d %v", code, body)
	}

	code, _ = do(t, r, http.MethodDelete, "/api/sessions/"+id, nil)
	if code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	code, body = do(t, r, http.MethodGet, "/api/sessions/"+id, nil)
	if code != http.StatusNotFound || body["code"] != "session_not_found" {
		t.Fatalf("get deleted = %d %v", code, body)
	}
}

func TestSessionErrors(t *testing.T) {
	cases := []struct {
		name       string
		fetchErr   error
		locateErr  error
		method     string
		suffix     string
		body       any
		wantStatus int
		wantError  string
	}{
		{"route fetch failure", directions.ErrDirectionsUnavailable, nil, http.MethodPut, "/destination",
			map[string]any{"latitude": 43.252, "longitude": -126.453}, http.StatusBadGateway, routes.MsgRouteFetchFailed},
		{"no route", directions.ErrNoRoute, nil, http.MethodPut, "/destination",
			map[string]any{"latitude": 43.252, "longitude": -126.453}, http.StatusNotFound, routes.MsgNoRoute},
		{"location timeout", nil, location.ErrLocationTimeout, http.MethodPost, "/origin/current",
			nil, http.StatusGatewayTimeout, routes.MsgLocationTimeout},
		{"location failure", nil, location.ErrLocationUnavailable, http.MethodPost, "/origin/current",
			nil, http.StatusBadGateway, routes.MsgLocationFailed},
		{"unknown place", nil, nil, http.MethodPut, "/destination",
			map[string]any{"place_id": "nowhere"}, http.StatusUnprocessableEntity, routes.MsgPlaceUnresolved},
		{"out of range", nil, nil, http.MethodPut, "/destination",
			map[string]any{"latitude": 95, "longitude": 0}, http.StatusBadRequest, routes.MsgInvalidCoordinate},
		{"empty endpoint body", nil, nil, http.MethodPut, "/destination",
			map[string]any{}, http.StatusBadRequest, routes.MsgInvalidRequest},
		{"progress without route", nil, nil, http.MethodPost, "/progress",
			map[string]any{"latitude": 1, "longitude": 1}, http.StatusNotFound, routes.MsgNoActiveRoute},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			if tc.fetchErr != nil {
				fetchErr := tc.fetchErr
				fetcher.fetchFn = func(context.Context, model.Coordinate, model.Coordinate, model.TravelMode) (*model.Route, error) {
					return nil, fetchErr
				}
			}
			locator := &mockLocator{}
			if tc.locateErr != nil {
				locateErr := tc.locateErr
				locator.locateFn = func(context.Context) (model.Coordinate, error) {
					return model.Coordinate{}, locateErr
				}
			}

			r := setupApp(fetcher, locator)
			id := createSession(t, r)
			if code, body := do(t, r, http.MethodPut, "/api/sessions/"+id+"/origin", map[string]any{"latitude": 38.5, "longitude": -120.2}); code != http.StatusOK {
				t.Fatalf("set origin = %d %v", code, body)
			}

			code, body := do(t, r, tc.method, "/api/sessions/"+id+tc.suffix, tc.body)
			if code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %v)", code, tc.wantStatus, body)
			}
			if body["error"] != tc.wantError {
				t.Fatalf("error = %v; want %q", body["error"], tc.wantError)
			}
		})
	}
}

func TestFailedReplanReturnsSession(t *testing.T) {
	fetcher := &mockFetcher{fetchFn: func(context.Context, model.Coordinate, model.Coordinate, model.TravelMode) (*model.Route, error) {
		return nil, directions.ErrDirectionsUnavailable
	}}
	r := setupApp(fetcher, &mockLocator{})
	id := createSession(t, r)

	do(t, r, http.MethodPut, "/api/sessions/"+id+"/origin", map[string]any{"latitude": 38.5, "longitude": -120.2})
	_, body := do(t, r, http.MethodPut, "/api/sessions/"+id+"/destination", map[string]any{"latitude": 43.252, "longitude": -126.453})

	session, ok := body["session"].(map[string]any)
	if !ok {
		t.Fatalf("error body has no session: %v", body)
	}
	if session["destination"] == nil || session["last_error"] == nil {
		t.Fatalf("session = %v", session)
	}
}

func TestCreateSessionMode(t *testing.T) {
	r := setupApp(&mockFetcher{}, &mockLocator{})

	code, body := do(t, r, http.MethodPost, "/api/sessions", map[string]any{"mode": "walking"})
	if code != http.StatusCreated || body["mode"] != "walking" {
		t.Fatalf("create walking session = %d %v", code, body)
	}

	code, body = do(t, r, http.MethodPost, "/api/sessions", map[string]any{"mode": "teleport"})
	if code != http.StatusBadRequest || body["error"] != routes.MsgInvalidMode {
		t.Fatalf("create teleport session = %d %v", code, body)
	}
}

func TestAutocomplete(t *testing.T) {
	r := setupApp(&mockFetcher{}, &mockLocator{})

	code, body := do(t, r, http.MethodGet, "/api/places/autocomplete?input=sacra", nil)
	if code != http.StatusOK {
		t.Fatalf("autocomplete = %d %v", code, body)
	}
	predictions := body["predictions"].([]any)
	if len(predictions) != 1 || predictions[0].(map[string]any)["place_id"] != "sac" {
		t.Fatalf("predictions = %v", predictions)
	}

	code, body = do(t, r, http.MethodGet, "/api/places/autocomplete", nil)
	if code != http.StatusBadRequest || body["error"] != routes.MsgEmptySearch {
		t.Fatalf("empty autocomplete = %d %v", code, body)
	}

	code, body = do(t, r, http.MethodGet, "/api/places/autocomplete?input=down", nil)
	if code != http.StatusBadGateway || body["error"] != routes.MsgPlacesUnavailable {
		t.Fatalf("autocomplete with provider down = %d %v", code, body)
	}
}
