package navigation

import (
	"navigator/internal/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Route line styling handed to the client renderer
const (
	RouteStrokeColor = "#000"
	RouteStrokeWidth = 3
	OriginPinColor   = "blue"
)

// MapView is everything the client needs to draw the map: where to look,
// the endpoint markers and the route line.
type MapView struct {
	Region   model.Region               `json:"region"`
	Features *geojson.FeatureCollection `json:"features"`
}

// MapView builds the GeoJSON view of the session. GeoJSON positions are [lng, lat].
func (s *NavigationService) MapView(id string) (*MapView, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()

	if session.Destination != nil {
		f := geojson.NewFeature(toOrbPoint(*session.Destination))
		f.Properties["kind"] = "destination"
		fc.Append(f)
	}
	if session.Origin != nil {
		f := geojson.NewFeature(toOrbPoint(*session.Origin))
		f.Properties["kind"] = "origin"
		f.Properties["pin_color"] = OriginPinColor
		fc.Append(f)
	}

	if plan, err := s.activePlan(id); err == nil && len(plan.route.Points) > 0 {
		line := make(orb.LineString, len(plan.route.Points))
		for i, p := range plan.route.Points {
			line[i] = orb.Point{p[1], p[0]}
		}
		f := geojson.NewFeature(line)
		f.ID = plan.route.ID
		f.Properties["kind"] = "route"
		f.Properties["stroke_color"] = RouteStrokeColor
		f.Properties["stroke_width"] = RouteStrokeWidth
		f.Properties["distance_meters"] = plan.route.DistanceMeters
		fc.Append(f)
	}

	return &MapView{Region: session.Region, Features: fc}, nil
}

func toOrbPoint(c model.Coordinate) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
