package model

import (
	"fmt"
	"time"

	"navigator/internal/util"

	"gorm.io/gorm"
)

// TravelMode is the directions travel mode.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
	TravelModeTransit   TravelMode = "transit"
)

// Valid reports whether m is a mode the directions API accepts.
func (m TravelMode) Valid() bool {
	switch m {
	case TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTransit:
		return true
	}
	return false
}

// Route is a planned route between two coordinates
type Route struct {
	ID              string     `json:"id"`
	Origin          Coordinate `json:"origin"`
	Destination     Coordinate `json:"destination"`
	Mode            TravelMode `json:"mode"`
	Polyline        string     `json:"polyline"`
	Summary         string     `json:"summary"`
	DistanceMeters  float64    `json:"distance_meters"`
	DurationSeconds float64    `json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`

	Points [][2]float64 `json:"-"`
}

// RoutePG is the GORM model for the Route entity
type RoutePG struct {
	ID              string     `gorm:"primaryKey"`
	OriginLat       float64    `gorm:"not null"`
	OriginLng       float64    `gorm:"not null"`
	DestinationLat  float64    `gorm:"not null"`
	DestinationLng  float64    `gorm:"not null"`
	Mode            TravelMode `gorm:"size:16;not null"`
	Polyline        string     `gorm:"type:text;not null"`
	Summary         string     `gorm:"size:255"`
	DistanceMeters  float64
	DurationSeconds float64

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the table name
func (RoutePG) TableName() string {
	return "routes"
}

// ToPG converts the route to its database shape
func (r *Route) ToPG() *RoutePG {
	return &RoutePG{
		ID:              r.ID,
		OriginLat:       r.Origin.Latitude,
		OriginLng:       r.Origin.Longitude,
		DestinationLat:  r.Destination.Latitude,
		DestinationLng:  r.Destination.Longitude,
		Mode:            r.Mode,
		Polyline:        r.Polyline,
		Summary:         r.Summary,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		CreatedAt:       r.CreatedAt,
	}
}

// RouteFromPG rebuilds a route and its decoded points from a database row
func RouteFromPG(pg *RoutePG) (*Route, error) {
	points, err := util.DecodePolyline(pg.Polyline)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", pg.ID, err)
	}

	return &Route{
		ID:              pg.ID,
		Origin:          Coordinate{Latitude: pg.OriginLat, Longitude: pg.OriginLng},
		Destination:     Coordinate{Latitude: pg.DestinationLat, Longitude: pg.DestinationLng},
		Mode:            pg.Mode,
		Polyline:        pg.Polyline,
		Summary:         pg.Summary,
		DistanceMeters:  pg.DistanceMeters,
		DurationSeconds: pg.DurationSeconds,
		CreatedAt:       pg.CreatedAt,
		Points:          points,
	}, nil
}
