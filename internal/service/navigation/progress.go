package navigation

import (
	"math"

	"navigator/internal/model"
	"navigator/internal/util"

	"github.com/dhconnelly/rtreego"
)

// ArrivalRadiusMeters is how close to the last route point counts as arrived.
const ArrivalRadiusMeters = 30.0

// nearestCandidates is how many index hits are re-ranked by great-circle distance.
const nearestCandidates = 8

// routeVertex is one decoded route point stored in the spatial index
type routeVertex struct {
	index int
	point [2]float64
}

// Bounds implements the rtreego.Spatial interface
func (v *routeVertex) Bounds() rtreego.Rect {
	return rtreego.Point{v.point[0], v.point[1]}.ToRect(1e-9)
}

// plannedRoute is a route with an R-tree over its points
type plannedRoute struct {
	route *model.Route
	index *rtreego.Rtree
}

func newPlannedRoute(route *model.Route) *plannedRoute {
	vertices := make([]rtreego.Spatial, len(route.Points))
	for i, p := range route.Points {
		vertices[i] = &routeVertex{index: i, point: p}
	}
	return &plannedRoute{
		route: route,
		index: rtreego.NewTree(2, 25, 50, vertices...),
	}
}

// Progress describes where a position is relative to the session's route
type Progress struct {
	RouteID         string           `json:"route_id"`
	Position        model.Coordinate `json:"position"`
	NearestIndex    int              `json:"nearest_index"`
	Nearest         model.Coordinate `json:"nearest"`
	OffRouteMeters  float64          `json:"off_route_meters"`
	RemainingMeters float64          `json:"remaining_meters"`
	Arrived         bool             `json:"arrived"`
}

// nearest returns the route vertex closest to p. The index ranks in degree
// space, so a handful of candidates are re-ranked by haversine distance.
func (r *plannedRoute) nearest(p model.Coordinate) (*routeVertex, float64) {
	hits := r.index.NearestNeighbors(nearestCandidates, rtreego.Point{p.Latitude, p.Longitude})

	var best *routeVertex
	bestDistance := math.Inf(1)
	for _, hit := range hits {
		v, ok := hit.(*routeVertex)
		if !ok {
			continue
		}
		d := util.HaversineDistance(p.Latitude, p.Longitude, v.point[0], v.point[1])
		if d < bestDistance || (d == bestDistance && best != nil && v.index > best.index) {
			best, bestDistance = v, d
		}
	}
	return best, bestDistance
}

// Progress reports the nearest route point to position and the distance left
func (s *NavigationService) Progress(id string, position model.Coordinate) (*Progress, error) {
	if !position.Valid() {
		return nil, ErrInvalidCoordinate
	}
	plan, err := s.activePlan(id)
	if err != nil {
		return nil, err
	}

	vertex, offRoute := plan.nearest(position)
	if vertex == nil {
		return nil, ErrNoActiveRoute
	}

	points := plan.route.Points
	remaining := util.PathLengthFrom(points, vertex.index)
	last := vertex.index == len(points)-1

	return &Progress{
		RouteID:         plan.route.ID,
		Position:        position,
		NearestIndex:    vertex.index,
		Nearest:         model.Coordinate{Latitude: vertex.point[0], Longitude: vertex.point[1]},
		OffRouteMeters:  offRoute,
		RemainingMeters: remaining,
		Arrived:         last && offRoute <= ArrivalRadiusMeters,
	}, nil
}
